// Package codexcli runs the Codex CLI as a subprocess text model.
package codexcli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/tesso57/sutra/internal/application/settings"
)

const (
	defaultCommand = "codex"
	defaultSandbox = "read-only"
	defaultTimeout = 60 * time.Second
)

// Config controls Codex CLI subprocess invocation.
type Config struct {
	Command          string
	Model            string
	WebSearch        string
	ReasoningEffort  string
	ReasoningSummary string
	Verbosity        string
	Sandbox          string
	Timeout          time.Duration
}

// ConfigFromSettings maps the codex config section to a client Config.
func ConfigFromSettings(cfg settings.CodexConfig) Config {
	return Config{
		Command:          cfg.Command,
		Model:            cfg.Model,
		WebSearch:        cfg.WebSearch,
		ReasoningEffort:  cfg.ReasoningEffort,
		ReasoningSummary: cfg.ReasoningSummary,
		Verbosity:        cfg.Verbosity,
		Sandbox:          cfg.Sandbox,
		Timeout:          time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
}

// Runner executes a command with stdin and returns stdout and stderr.
type Runner func(ctx context.Context, command string, args []string, stdin string) (string, string, error)

// Option customizes a Client.
type Option func(*Client)

// WithRunner replaces the subprocess runner.
func WithRunner(run Runner) Option {
	return func(c *Client) {
		if run != nil {
			c.run = run
		}
	}
}

// Client implements ai.Client over `codex exec`.
type Client struct {
	config Config
	run    Runner
}

// NewClient creates a Codex CLI client.
func NewClient(cfg Config, opts ...Option) Client {
	c := Client{config: cfg.withDefaults(), run: execRunner}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Generate sends prompt on stdin and returns the final answer with any
// markdown code fence removed.
func (c Client) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("prompt is empty")
	}
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	stdout, stderr, err := c.run(ctx, c.config.Command, c.args(), prompt)
	if err != nil {
		if reason := firstNonEmpty(stderr, stdout); reason != "" {
			return "", fmt.Errorf("codex exec failed: %w: %s", err, reason)
		}
		return "", fmt.Errorf("codex exec failed: %w", err)
	}
	return unfence(stdout), nil
}

func (cfg Config) withDefaults() Config {
	if strings.TrimSpace(cfg.Command) == "" {
		cfg.Command = defaultCommand
	}
	if strings.TrimSpace(cfg.Sandbox) == "" {
		cfg.Sandbox = defaultSandbox
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return cfg
}

func (c Client) args() []string {
	args := []string{"exec", "--skip-git-repo-check", "--sandbox", c.config.Sandbox, "--color", "never"}
	if m := strings.TrimSpace(c.config.Model); m != "" {
		args = append(args, "-m", m)
	}
	overrides := []struct{ key, value string }{
		{"web_search", c.config.WebSearch},
		{"model_reasoning_effort", c.config.ReasoningEffort},
		{"model_reasoning_summary", c.config.ReasoningSummary},
		{"model_verbosity", c.config.Verbosity},
	}
	for _, o := range overrides {
		if strings.TrimSpace(o.value) != "" {
			args = append(args, "-c", fmt.Sprintf("%s=%q", o.key, o.value))
		}
	}
	return append(args, "-")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func unfence(out string) string {
	text := strings.TrimSpace(out)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	_, body, ok := strings.Cut(text, "\n")
	if !ok {
		return text
	}
	body = strings.TrimSpace(body)
	return strings.TrimSpace(strings.TrimSuffix(body, "```"))
}

func execRunner(ctx context.Context, command string, args []string, stdin string) (string, string, error) {
	cmd := exec.CommandContext(ctx, command, args...) //nolint:gosec
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
