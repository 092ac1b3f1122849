package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func decodeLines(t *testing.T, data []byte) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("failed to parse log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestNewLogger(t *testing.T) {
	t.Run("creates log file in directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "logs")

		logger, err := NewLogger(dir, LevelDebug)
		if err != nil {
			t.Fatalf("NewLogger failed: %v", err)
		}
		logger.Info("hello")
		if err := logger.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}

		content, err := os.ReadFile(filepath.Join(dir, FileName))
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		entries := decodeLines(t, content)
		if len(entries) != 1 || entries[0]["msg"] != "hello" {
			t.Errorf("unexpected log content: %s", content)
		}
	})

	t.Run("close releases the log file", func(t *testing.T) {
		dir := t.TempDir()

		logger, err := NewLogger(dir, LevelInfo)
		if err != nil {
			t.Fatalf("NewLogger failed: %v", err)
		}
		file := logger.file
		if file == nil {
			t.Fatal("expected logger to hold the log file")
		}
		child := logger.WithProject("demo")
		if child.file != file {
			t.Error("expected child logger to share the log file")
		}

		logger.Info("before close")
		if err := logger.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		if logger.file != nil {
			t.Error("expected file to be cleared after Close")
		}
		if _, err := file.Write([]byte("x")); !errors.Is(err, os.ErrClosed) {
			t.Errorf("expected write on closed file to fail with os.ErrClosed, got %v", err)
		}

		logger.Info("after close")
		content, err := os.ReadFile(filepath.Join(dir, FileName))
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		entries := decodeLines(t, content)
		if len(entries) != 1 || entries[0]["msg"] != "before close" {
			t.Errorf("expected only the entry written before Close, got %s", content)
		}
	})

	t.Run("writes to stderr when dir is empty", func(t *testing.T) {
		logger, err := NewLogger("", LevelInfo)
		if err != nil {
			t.Fatalf("NewLogger failed: %v", err)
		}
		defer logger.Close()

		if logger.file != nil {
			t.Error("expected file to be nil when dir is empty")
		}
	})
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, LevelWarn)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	entries := decodeLines(t, buf.Bytes())
	if len(entries) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(entries))
	}
	if entries[0]["level"] != "WARN" || entries[1]["level"] != "ERROR" {
		t.Errorf("unexpected levels: %v, %v", entries[0]["level"], entries[1]["level"])
	}
}

func TestChildLoggers(t *testing.T) {
	var buf bytes.Buffer
	base := New(&buf, LevelInfo)

	child := base.WithProject("site.json").WithPhase("schedule").With("tasks", 4)
	child.Info("scheduled", "duration", 12)
	base.Info("plain")

	entries := decodeLines(t, buf.Bytes())
	if len(entries) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(entries))
	}

	first := entries[0]
	if first["project"] != "site.json" || first["phase"] != "schedule" {
		t.Errorf("missing child attributes: %v", first)
	}
	if first["tasks"] != float64(4) || first["duration"] != float64(12) {
		t.Errorf("missing key-value attributes: %v", first)
	}
	if _, ok := entries[1]["project"]; ok {
		t.Error("parent logger must not inherit child attributes")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debug", LevelDebug},
		{" INFO ", LevelInfo},
		{"warning", LevelWarn},
		{"Error", LevelError},
		{"verbose", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	if !IsValidLevel("warn") || IsValidLevel("verbose") {
		t.Error("IsValidLevel misclassified a level")
	}
	if !IsValidLevel("warning") || !IsValidLevel(" WARNING ") {
		t.Error("IsValidLevel should accept the WARNING alias that ParseLevel accepts")
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	logger.Error("discarded")
	if err := logger.Close(); err != nil {
		t.Errorf("Close on NopLogger returned %v", err)
	}
}
