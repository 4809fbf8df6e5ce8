// Package app wires the richedit components together: configuration,
// logging, the schema, the editor, Lua scripting, and file watching. It
// manages their lifecycle.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/dshills/richedit/internal/config"
	"github.com/dshills/richedit/internal/config/loader"
	"github.com/dshills/richedit/internal/config/watcher"
	"github.com/dshills/richedit/internal/engine"
	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/event"
	"github.com/dshills/richedit/internal/plugin/lua"
)

// Application is the central coordinator for all richedit components.
type Application struct {
	mu sync.RWMutex

	// Core infrastructure
	config   *config.Config
	logging  *Logging
	eventBus event.Bus
	fs       loader.FileSystem

	// Editing
	schema *model.Schema
	editor *engine.Editor

	// Extension
	script  *lua.State
	watcher *watcher.Watcher

	subscriptions *subscriptionManager
	metrics       *Metrics

	// Resolved absolute paths of watched files.
	configPath string
	schemaPath string

	closed atomic.Bool

	opts Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the settings file. Empty uses defaults and environment
	// only.
	ConfigPath string

	// SchemaPath overrides schema.path from the settings.
	SchemaPath string

	// DocPath is a document JSON file to open on startup.
	DocPath string

	// LogLevel overrides logging.level from the settings.
	LogLevel string

	// ReadOnly opens the document read-only regardless of settings.
	ReadOnly bool

	// Watch reloads the settings and schema files when they change,
	// regardless of schema.watch.
	Watch bool

	// LogOutput receives log records when no log file is configured.
	// Defaults to os.Stderr.
	LogOutput io.Writer

	// FS is the file system settings, schema, and document files are read
	// from. Defaults to the OS file system.
	FS loader.FileSystem
}

// New creates an Application and initializes its components in
// dependency order. On failure the components already initialized are
// released.
func New(opts Options) (*Application, error) {
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	if opts.FS == nil {
		opts.FS = loader.DefaultFS()
	}

	app := &Application{
		opts:    opts,
		fs:      opts.FS,
		metrics: NewMetrics(),
	}
	if err := newBootstrapper(app).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Config returns the configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Logger returns the application logger.
func (app *Application) Logger() *slog.Logger {
	if app.logging == nil {
		return slog.Default()
	}
	return app.logging.Logger
}

// EventBus returns the bus the editor publishes on.
func (app *Application) EventBus() event.Bus {
	return app.eventBus
}

// Schema returns the active schema.
func (app *Application) Schema() *model.Schema {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.schema
}

// Editor returns the active editor. A schema reload replaces it.
func (app *Application) Editor() *engine.Editor {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.editor
}

// Script returns the Lua state, which has the editor installed as doc.
func (app *Application) Script() *lua.State {
	return app.script
}

// Metrics returns the application's metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// Watcher returns the file watcher, or nil when watching is disabled.
func (app *Application) Watcher() *watcher.Watcher {
	return app.watcher
}

// RunScript runs the Lua file at path against the editor. The run is
// bounded by script.timeout.
func (app *Application) RunScript(ctx context.Context, path string) error {
	data, err := app.fs.ReadFile(path)
	if err != nil {
		return &FileError{Op: "read script", Path: path, Err: err}
	}
	return app.RunScriptString(ctx, filepath.Base(path), string(data))
}

// RunScriptString runs Lua code against the editor.
func (app *Application) RunScriptString(ctx context.Context, name, code string) error {
	if app.closed.Load() {
		return ErrClosed
	}

	timer := StartTimer()
	err := app.script.Run(ctx, name, code)
	app.metrics.RecordScript(timer.Elapsed(), err)
	if err != nil {
		app.Logger().Error("script failed", "script", name, "error", err)
		return NewOperationError("run script", name, err)
	}
	app.Logger().Debug("script finished", "script", name, "elapsed", timer.Elapsed())
	return nil
}

// editorOptions returns the editor options derived from the settings.
func (app *Application) editorOptions() []engine.Option {
	hist := app.config.History()
	track := app.config.Tracking()
	opts := []engine.Option{
		engine.WithMaxHistory(hist.MaxEntries),
		engine.WithMaxChanges(track.MaxChanges),
		engine.WithMaxRevisions(track.MaxRevisions),
		engine.WithBus(app.eventBus),
		engine.WithLogger(app.Logger().With("component", "engine")),
	}
	if app.opts.ReadOnly || app.config.Editor().ReadOnly {
		opts = append(opts, engine.WithReadOnly())
	}
	return opts
}

// resolvePath returns path made absolute, for matching watcher events.
func resolvePath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return abs, nil
}
