package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/tesso57/sutra/internal/application/settings"
)

func TestNew_WritesServiceAndFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(settings.LogConfig{Level: "warn"}, &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	log.Info().Msg("hidden")
	log.Warn().Str("topic", "cricket").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &payload); err != nil {
		t.Fatalf("invalid json log: %v", err)
	}
	if payload["service"] != "sutra" || payload["level"] != "warn" || payload["topic"] != "cricket" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"DEBUG":   zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestOpen_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sutra.log")
	log, closer, err := Open(settings.LogConfig{Level: "info", File: path})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	log.Info().Msg("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"message":"hello"`) {
		t.Fatalf("log file missing entry: %s", data)
	}
}
