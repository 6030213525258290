// Package state holds UI state types for the TUI.
package state

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/tesso57/sutra/internal/application/settings"
)

// Session represents the current view state.
type Session int

const (
	// TopicView focuses the agent sidebar.
	TopicView Session = iota
	// ItemView focuses the content of the selected agent.
	ItemView
	DetailView
	SavedView
	AgentFormView
	DeleteAgentView
	QuitView
)

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	Up               key.Binding
	Down             key.Binding
	Left             key.Binding
	Right            key.Binding
	UpPage           key.Binding
	DownPage         key.Binding
	Top              key.Binding
	Bottom           key.Binding
	Open             key.Binding
	Back             key.Binding
	Quit             key.Binding
	NewFeedAgent     key.Binding
	NewLearningAgent key.Binding
	EditAgent        key.Binding
	DeleteAgent      key.Binding
	Refresh          key.Binding
	RefreshAll       key.Binding
	Save             key.Binding
	SwitchView       key.Binding
	ShowSaved        key.Binding
	Help             key.Binding
}

// ShortHelp returns a subset of keybindings for the help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit, k.SwitchView, k.Refresh, k.Save}
}

// FullHelp returns all keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Top, k.Bottom, k.UpPage, k.DownPage},
		{k.Open, k.Back, k.Quit, k.Help},
		{k.NewFeedAgent, k.NewLearningAgent, k.EditAgent, k.DeleteAgent},
		{k.Refresh, k.RefreshAll, k.Save, k.SwitchView, k.ShowSaved},
	}
}

// NewKeyMap creates a new KeyMap from the configuration.
func NewKeyMap(cfg settings.KeyMapConfig) KeyMap {
	bind := func(keys, help string) key.Binding {
		return key.NewBinding(key.WithKeys(splitKeys(keys)...), key.WithHelp(keys, help))
	}
	return KeyMap{
		Up:               bind(cfg.Up, "up"),
		Down:             bind(cfg.Down, "down"),
		Left:             bind(cfg.Left, "back/agents"),
		Right:            bind(cfg.Right, "items"),
		UpPage:           bind(cfg.UpPage, "pgup"),
		DownPage:         bind(cfg.DownPage, "pgdn"),
		Top:              bind(cfg.Top, "top"),
		Bottom:           bind(cfg.Bottom, "bottom"),
		Open:             bind(cfg.Open, "open"),
		Back:             bind(cfg.Back, "back"),
		Quit:             bind(cfg.Quit, "quit"),
		NewFeedAgent:     bind(cfg.NewFeedAgent, "new feed agent"),
		NewLearningAgent: bind(cfg.NewLearningAgent, "new learning agent"),
		EditAgent:        bind(cfg.EditAgent, "edit agent"),
		DeleteAgent:      bind(cfg.DeleteAgent, "delete agent"),
		Refresh:          bind(cfg.Refresh, "refresh"),
		RefreshAll:       bind(cfg.RefreshAll, "refresh all"),
		Save:             bind(cfg.Save, "save"),
		SwitchView:       bind(cfg.SwitchView, "feed/learning"),
		ShowSaved:        bind(cfg.SavedView, "saved"),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}

func splitKeys(keys string) []string {
	parts := strings.Split(keys, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		keyName := strings.TrimSpace(part)
		if keyName == "" {
			continue
		}
		out = append(out, keyName)
		switch keyName {
		case "pgdn":
			out = append(out, "pgdown")
		case "pgdown":
			out = append(out, "pgdn")
		}
	}
	return out
}
