package event

import (
	"io"
	"log/slog"
)

// BusOption configures an event Bus.
type BusOption func(*busConfig)

type busConfig struct {
	panicHandler PanicHandler
	logger       *slog.Logger
}

func defaultBusConfig() busConfig {
	return busConfig{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithBusPanicHandler sets the handler called when a subscriber panics.
func WithBusPanicHandler(h PanicHandler) BusOption {
	return func(c *busConfig) {
		c.panicHandler = h
	}
}

// WithBusLogger sets the logger used to report handler failures.
func WithBusLogger(logger *slog.Logger) BusOption {
	return func(c *busConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}
