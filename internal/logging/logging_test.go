// ABOUTME: Tests for logger construction and level parsing.
// ABOUTME: Verifies stderr text output, rotating file output, and verbose override.
package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"", slog.LevelWarn},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{" error ", slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if err != nil {
				t.Fatalf("ParseLevel(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNewStderrDefaultsToWarn(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Options{Stderr: &buf})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer func() { _ = closer.Close() }()

	logger.Info("hidden")
	logger.Warn("git pull failed", "error", "boom")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "git pull failed") {
		t.Errorf("expected warning in output: %s", out)
	}
}

func TestNewVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Options{Level: "error", Verbose: true, Stderr: &buf})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	logger.Debug("loading stufflog")
	if !strings.Contains(buf.String(), "loading stufflog") {
		t.Errorf("expected debug output with verbose: %s", buf.String())
	}
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "stufflog.log")
	var stderr bytes.Buffer

	logger, closer, err := New(Options{File: path, Stderr: &stderr})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	logger.Warn("git push failed", "category", "books")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	if stderr.Len() != 0 {
		t.Errorf("expected nothing on stderr when logging to file, got %q", stderr.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &record); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", string(data), err)
	}
	if record["msg"] != "git push failed" || record["category"] != "books" {
		t.Errorf("unexpected record: %v", record)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	if _, _, err := New(Options{Level: "chatty"}); err == nil {
		t.Error("expected error for invalid level")
	}
}
