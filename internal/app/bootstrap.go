package app

import (
	"github.com/dshills/richedit/internal/config"
	"github.com/dshills/richedit/internal/config/watcher"
	"github.com/dshills/richedit/internal/engine"
	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/model/basic"
	"github.com/dshills/richedit/internal/event"
	"github.com/dshills/richedit/internal/plugin/lua"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      app.opts,
		initOrder: make([]string, 0, 8),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initConfig,
		b.initLogging,
		b.initEventBus,
		b.initSchema,
		b.initEditor,
		b.initScripting,
		b.initSubscriptions,
		b.initWatcher,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	b.app.Logger().Info("richedit ready",
		"config", b.app.config.Sources(),
		"schema", b.app.schemaPath,
		"revision", b.app.editor.Revision(),
	)
	return nil
}

// initConfig loads settings from defaults, the settings file, and the
// environment.
func (b *bootstrapper) initConfig() error {
	cfg, err := config.Load(b.opts.ConfigPath, config.WithFileSystem(b.app.fs))
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	if err := b.app.applyOverrides(cfg); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	b.app.config = cfg
	b.initOrder = append(b.initOrder, "config")
	return nil
}

// applyOverrides applies the command line options that take precedence
// over settings.
func (app *Application) applyOverrides(cfg *config.Config) error {
	if app.opts.SchemaPath != "" {
		if err := cfg.Set("schema.path", app.opts.SchemaPath); err != nil {
			return err
		}
	}
	if app.opts.LogLevel != "" {
		if err := cfg.Set("logging.level", app.opts.LogLevel); err != nil {
			return err
		}
	}
	return nil
}

// initLogging builds the process logger from the logging section.
func (b *bootstrapper) initLogging() error {
	logging, err := NewLogging(b.app.config.Logging(), b.opts.LogOutput)
	if err != nil {
		return &InitError{Component: "logging", Err: err}
	}
	b.app.logging = logging
	b.initOrder = append(b.initOrder, "logging")
	return nil
}

// initEventBus initializes the event bus.
func (b *bootstrapper) initEventBus() error {
	b.app.eventBus = event.NewBus(event.WithBusLogger(b.app.Logger().With("component", "event")))
	b.initOrder = append(b.initOrder, "eventBus")
	return nil
}

// initSchema builds the schema from schema.path, or the built-in basic
// schema when none is configured.
func (b *bootstrapper) initSchema() error {
	path := b.app.config.Schema().Path
	schema, err := b.app.loadSchema(path)
	if err != nil {
		return &InitError{Component: "schema", Err: err}
	}
	abs, err := resolvePath(path)
	if err != nil {
		return &InitError{Component: "schema", Err: err}
	}
	b.app.schema = schema
	b.app.schemaPath = abs
	b.initOrder = append(b.initOrder, "schema")
	return nil
}

// initEditor creates the editor over the startup document.
func (b *bootstrapper) initEditor() error {
	opts := b.app.editorOptions()
	if b.opts.DocPath != "" {
		doc, err := b.app.readDocument(b.app.schema, b.opts.DocPath)
		if err != nil {
			return &InitError{Component: "editor", Err: err}
		}
		opts = append(opts, engine.WithDoc(doc))
	}
	ed, err := engine.New(b.app.schema, opts...)
	if err != nil {
		return &InitError{Component: "editor", Err: err}
	}
	b.app.editor = ed
	b.initOrder = append(b.initOrder, "editor")
	return nil
}

// initScripting creates the Lua state with the editor installed as doc.
func (b *bootstrapper) initScripting() error {
	sc := b.app.config.Script()
	state, err := lua.NewState(
		lua.WithExecutionTimeout(sc.Timeout),
		lua.WithCallStackSize(sc.CallStackSize),
		lua.WithLogger(b.app.Logger().With("component", "script")),
	)
	if err != nil {
		return &InitError{Component: "script", Err: err}
	}
	if err := state.Register(lua.NewEditorModule(b.app.editor)); err != nil {
		_ = state.Close()
		return &InitError{Component: "script", Err: err}
	}
	b.app.script = state
	b.initOrder = append(b.initOrder, "script")
	return nil
}

// initSubscriptions connects the editor's events to metrics and logging.
func (b *bootstrapper) initSubscriptions() error {
	sm := newSubscriptionManager(b.app)
	if err := sm.setupSubscriptions(); err != nil {
		sm.unsubscribeAll()
		return &InitError{Component: "subscriptions", Err: err}
	}
	b.app.subscriptions = sm
	b.initOrder = append(b.initOrder, "subscriptions")
	return nil
}

// initWatcher watches the settings and schema files when reloading is
// enabled. Files that cannot be watched are logged and skipped.
func (b *bootstrapper) initWatcher() error {
	sc := b.app.config.Schema()
	if !b.opts.Watch && !sc.Watch {
		return nil
	}

	configPath, err := resolvePath(b.opts.ConfigPath)
	if err != nil {
		return &InitError{Component: "watcher", Err: err}
	}
	b.app.configPath = configPath

	w, err := watcher.New(
		watcher.WithDebounce(sc.Debounce),
		watcher.WithLogger(b.app.Logger().With("component", "watcher")),
	)
	if err != nil {
		return &InitError{Component: "watcher", Err: err}
	}

	watched := 0
	for _, path := range []string{b.app.configPath, b.app.schemaPath} {
		if path == "" {
			continue
		}
		if err := w.Watch(path); err != nil {
			b.app.Logger().Warn("cannot watch file", "path", path, "error", err)
			continue
		}
		watched++
	}
	if watched == 0 {
		_ = w.Stop()
		return nil
	}

	w.OnChange(b.app.handleFileChange)
	if err := w.Start(); err != nil {
		_ = w.Stop()
		return &InitError{Component: "watcher", Err: err}
	}
	b.app.watcher = w
	b.initOrder = append(b.initOrder, "watcher")
	return nil
}

// loadSchema builds the schema at path, or the basic schema for "".
func (app *Application) loadSchema(path string) (*model.Schema, error) {
	logger := app.Logger().With("component", "schema")
	if path == "" {
		return basic.New(model.WithLogger(logger))
	}
	return config.LoadSchema(app.fs, path, model.WithLogger(logger))
}

// cleanup performs cleanup in reverse initialization order.
// Called when bootstrap fails partway through.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(b.initOrder[i])
	}
}

// cleanupComponent cleans up a single component.
func (b *bootstrapper) cleanupComponent(component string) {
	switch component {
	case "watcher":
		if b.app.watcher != nil {
			_ = b.app.watcher.Stop()
			b.app.watcher = nil
		}
	case "subscriptions":
		if b.app.subscriptions != nil {
			b.app.subscriptions.unsubscribeAll()
			b.app.subscriptions = nil
		}
	case "script":
		if b.app.script != nil {
			_ = b.app.script.Close()
			b.app.script = nil
		}
	case "editor":
		b.app.editor = nil
	case "schema":
		b.app.schema = nil
	case "eventBus":
		b.app.eventBus = nil
	case "logging":
		if b.app.logging != nil {
			_ = b.app.logging.Close()
			b.app.logging = nil
		}
	case "config":
		b.app.config = nil
	}
}
