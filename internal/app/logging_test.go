package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/richedit/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo}, // Default
		{"", slog.LevelInfo},        // Default
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLogLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestNewLogging_Text(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogging(config.LoggingConfig{Level: "warn", Format: "text"}, &buf)
	if err != nil {
		t.Fatalf("NewLogging() error = %v", err)
	}

	l.Logger.Info("hidden")
	l.Logger.Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("expected info record to be filtered")
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "key=value") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestNewLogging_JSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogging(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("NewLogging() error = %v", err)
	}

	l.Logger.Info("edit", "revision", 3)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if rec["msg"] != "edit" || rec["revision"] != float64(3) {
		t.Errorf("unexpected record %v", rec)
	}
}

func TestNewLogging_BadFormat(t *testing.T) {
	_, err := NewLogging(config.LoggingConfig{Format: "xml"}, &bytes.Buffer{})
	if !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("NewLogging() error = %v, want ErrInvalidOperation", err)
	}
}

func TestLogging_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogging(config.LoggingConfig{Level: "error"}, &buf)
	if err != nil {
		t.Fatal(err)
	}

	l.Logger.Debug("before")
	l.SetLevel("debug")
	l.Logger.Debug("after")

	if l.Level() != slog.LevelDebug {
		t.Errorf("Level() = %v, want debug", l.Level())
	}
	out := buf.String()
	if strings.Contains(out, "before") || !strings.Contains(out, "after") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestNewLogging_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "richedit.log")
	var buf bytes.Buffer
	l, err := NewLogging(config.LoggingConfig{Level: "info", File: path}, &buf)
	if err != nil {
		t.Fatalf("NewLogging() error = %v", err)
	}

	l.Logger.Info("to file")
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := l.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file = %q", data)
	}
	if buf.Len() != 0 {
		t.Error("expected nothing written to the fallback writer")
	}
}

func TestNewLogging_FileError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "richedit.log")
	_, err := NewLogging(config.LoggingConfig{File: path}, nil)
	var fileErr *FileError
	if !errors.As(err, &fileErr) {
		t.Errorf("NewLogging() error = %v, want FileError", err)
	}
}
