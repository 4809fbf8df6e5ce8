package engine

import (
	"log/slog"

	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/event"
)

// Default configuration values.
const (
	DefaultMaxHistory   = 100
	DefaultMaxChanges   = 10000
	DefaultMaxRevisions = 100
)

// Option configures an Editor during creation.
type Option func(*Editor)

// WithDoc sets the initial document. It must be built from the editor's
// schema.
func WithDoc(doc *model.Node) Option {
	return func(e *Editor) {
		e.initDoc = doc
	}
}

// WithMaxHistory sets the maximum number of undo entries.
func WithMaxHistory(max int) Option {
	return func(e *Editor) {
		if max > 0 {
			e.maxHistory = max
		}
	}
}

// WithMaxChanges sets the maximum number of tracked changes.
func WithMaxChanges(max int) Option {
	return func(e *Editor) {
		if max > 0 {
			e.maxChanges = max
		}
	}
}

// WithMaxRevisions sets the maximum number of stored revisions.
func WithMaxRevisions(max int) Option {
	return func(e *Editor) {
		if max > 0 {
			e.maxRevisions = max
		}
	}
}

// WithBus sets the bus change notifications are published on. Without
// it the editor uses a private bus, reachable through Bus.
func WithBus(bus event.Bus) Option {
	return func(e *Editor) {
		e.bus = bus
	}
}

// WithLogger sets the logger. The default is the schema's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithScheduler sets the scheduler that acknowledges a propagated change.
func WithScheduler(s Scheduler) Option {
	return func(e *Editor) {
		e.scheduler = s
	}
}

// WithReadOnly creates a read-only editor.
// Edits return ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Editor) {
		e.readOnly = true
	}
}
