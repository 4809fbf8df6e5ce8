package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dshills/richedit/internal/config"
)

// ParseLogLevel parses a level name. Unknown names give slog.LevelInfo.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logging owns the process logger. Its level can be changed while the
// application runs.
type Logging struct {
	// Logger is the process logger.
	Logger *slog.Logger

	level *slog.LevelVar
	file  *os.File
}

// NewLogging builds a logger from cfg. Records go to cfg.File when set,
// otherwise to w, as text or JSON per cfg.Format.
func NewLogging(cfg config.LoggingConfig, w io.Writer) (*Logging, error) {
	l := &Logging{level: new(slog.LevelVar)}
	l.level.Set(ParseLogLevel(cfg.Level))

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, &FileError{Op: "open log", Path: cfg.File, Err: err}
		}
		l.file = f
		w = f
	}
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: l.level}
	var h slog.Handler
	switch cfg.Format {
	case "", "text":
		h = slog.NewTextHandler(w, opts)
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		_ = l.Close()
		return nil, fmt.Errorf("log format %q: %w", cfg.Format, ErrInvalidOperation)
	}
	l.Logger = slog.New(h)
	return l, nil
}

// SetLevel changes the minimum level by name.
func (l *Logging) SetLevel(name string) {
	l.level.Set(ParseLogLevel(name))
}

// Level returns the minimum level.
func (l *Logging) Level() slog.Level {
	return l.level.Level()
}

// Close closes the log file, if any.
func (l *Logging) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
