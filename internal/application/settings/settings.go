// Package settings defines application-level configuration data.
package settings

import (
	"net/url"
	"strings"
	"time"
)

// APIConfig points the client at the curation service.
type APIConfig struct {
	BaseURL        string `yaml:"base_url" kong:"help='Curation service base URL',default='http://localhost:8000/api'"`
	TimeoutSeconds int    `yaml:"timeout_seconds" kong:"help='HTTP timeout in seconds',default='30'"`
	Debug          bool   `yaml:"debug" kong:"help='Dump HTTP traffic to the log',default='false'"`
}

// KeyMapConfig defines the configuration for keybindings.
type KeyMapConfig struct {
	Up               string `yaml:"up" kong:"help='Up key',default='k'"`
	Down             string `yaml:"down" kong:"help='Down key',default='j'"`
	Left             string `yaml:"left" kong:"help='Left/Back key',default='h'"`
	Right            string `yaml:"right" kong:"help='Right/Enter key',default='l'"`
	UpPage           string `yaml:"up_page" kong:"help='Page Up key',default='ctrl+u'"`
	DownPage         string `yaml:"down_page" kong:"help='Page Down key',default='ctrl+d'"`
	Top              string `yaml:"top" kong:"help='Top key',default='g'"`
	Bottom           string `yaml:"bottom" kong:"help='Bottom key',default='G'"`
	Open             string `yaml:"open" kong:"help='Open key',default='enter'"`
	Back             string `yaml:"back" kong:"help='Back key',default='esc'"`
	Quit             string `yaml:"quit" kong:"help='Quit key',default='q'"`
	NewFeedAgent     string `yaml:"new_feed_agent" kong:"help='Create feed agent key',default='a'"`
	NewLearningAgent string `yaml:"new_learning_agent" kong:"help='Create learning agent key',default='A'"`
	EditAgent        string `yaml:"edit_agent" kong:"help='Edit agent key',default='e'"`
	DeleteAgent      string `yaml:"delete_agent" kong:"help='Delete agent key',default='x'"`
	Refresh          string `yaml:"refresh" kong:"help='Refresh selected agent key',default='r'"`
	RefreshAll       string `yaml:"refresh_all" kong:"help='Refresh all agents key',default='R'"`
	Save             string `yaml:"save" kong:"help='Save/unsave item key',default='s'"`
	SwitchView       string `yaml:"switch_view" kong:"help='Switch feed/learning view key',default='tab'"`
	SavedView        string `yaml:"saved_view" kong:"help='Show saved items key',default='v'"`
}

// ThemeConfig defines the color theme configuration.
type ThemeConfig struct {
	TopicName string `yaml:"topic_name" kong:"help='Topic name color',default='244'"`
	Saved     string `yaml:"saved" kong:"help='Saved marker color',default='212'"`
	Completed string `yaml:"completed" kong:"help='Completed plan color',default='42'"`
}

// LogConfig controls diagnostics. The TUI owns the terminal, so logs go to a file.
type LogConfig struct {
	Level string `yaml:"level" kong:"help='Log level (debug/info/warn/error)',default='info'"`
	File  string `yaml:"file" kong:"help='Log file path'"`
}

// ServerConfig configures the development API server.
type ServerConfig struct {
	Addr            string `yaml:"addr" kong:"help='Listen address',default=':8000'"`
	DBFile          string `yaml:"db_file" kong:"help='Server database path'"`
	FeedURLTemplate string `yaml:"feed_url_template" kong:"help='Search feed URL, {query} is replaced by the topic',default='https://news.google.com/rss/search?q={query}'"`
	ItemsPerRefresh int    `yaml:"items_per_refresh" kong:"help='Items fetched per topic refresh',default='5'"`
	FeedLimit       int    `yaml:"feed_limit" kong:"help='Items per topic in a feed snapshot',default='10'"`
	FetchMinutes    int    `yaml:"fetch_interval_minutes" kong:"help='Minutes between scheduled refreshes of every topic, 0 disables',default='720'"`
	CleanupMinutes  int    `yaml:"cleanup_interval_minutes" kong:"help='Minutes between content cleanups, 0 disables',default='1440'"`
	RetentionDays   int    `yaml:"retention_days" kong:"help='Days unsaved content is kept',default='7'"`
}

// CodexConfig defines Codex CLI integration settings.
type CodexConfig struct {
	Enabled          bool   `yaml:"enabled" kong:"help='Generate AI content with Codex',default='false'"`
	Command          string `yaml:"command" kong:"help='Codex command',default='codex'"`
	Model            string `yaml:"model" kong:"help='Codex model',default='gpt-5'"`
	WebSearch        string `yaml:"web_search" kong:"help='Web search mode (disabled/cached/live)',default='disabled'"`
	ReasoningEffort  string `yaml:"reasoning_effort" kong:"help='Reasoning effort (none/minimal/low/medium/high/xhigh)',default='low'"`
	ReasoningSummary string `yaml:"reasoning_summary" kong:"help='Reasoning summary (auto/concise/detailed/none)',default='none'"`
	Verbosity        string `yaml:"verbosity" kong:"help='Model verbosity (low/medium/high)',default='low'"`
	TimeoutSeconds   int    `yaml:"timeout_seconds" kong:"help='Timeout in seconds',default='60'"`
	Sandbox          string `yaml:"sandbox" kong:"help='Sandbox mode (read-only/workspace-write/danger-full-access)',default='read-only'"`
}

// Settings represents the application configuration.
type Settings struct {
	API       APIConfig    `yaml:"api" kong:"embed,prefix='api.'"`
	KeyMap    KeyMapConfig `yaml:"keymap" kong:"embed,prefix='keymap.'"`
	Theme     ThemeConfig  `yaml:"theme" kong:"embed,prefix='theme.'"`
	Log       LogConfig    `yaml:"log" kong:"embed,prefix='log.'"`
	Server    ServerConfig `yaml:"server" kong:"embed,prefix='server.'"`
	Codex     CodexConfig  `yaml:"codex" kong:"embed,prefix='codex.'"`
	StateFile string       `yaml:"state_file" kong:"help='Session state database path'"`
}

// Timeout returns the HTTP timeout, falling back to 30s.
func (a APIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// Intervals returns the fetch and cleanup job intervals. Zero disables a job.
func (s ServerConfig) Intervals() (fetch, cleanup time.Duration) {
	return time.Duration(max(s.FetchMinutes, 0)) * time.Minute, time.Duration(max(s.CleanupMinutes, 0)) * time.Minute
}

// Retention returns how long unsaved content is kept, falling back to 7 days.
func (s ServerConfig) Retention() time.Duration {
	if s.RetentionDays <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(s.RetentionDays) * 24 * time.Hour
}

// FeedURL expands the search feed template for a query.
func (s ServerConfig) FeedURL(query string) string {
	return strings.ReplaceAll(s.FeedURLTemplate, "{query}", url.QueryEscape(query))
}
