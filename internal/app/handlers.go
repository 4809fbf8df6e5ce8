package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dshills/richedit/internal/config/watcher"
	"github.com/dshills/richedit/internal/engine"
	"github.com/dshills/richedit/internal/event"
	"github.com/dshills/richedit/internal/event/events"
	"github.com/dshills/richedit/internal/plugin/lua"
)

const eventSource = "app"

// handleFileChange reloads the settings or schema file named by ev.
// Errors are logged; the running state is kept.
func (app *Application) handleFileChange(ev watcher.Event) {
	if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
		app.Logger().Warn("watched file removed", "path", ev.Path)
		return
	}

	var err error
	switch ev.Path {
	case app.configPath:
		err = app.ReloadConfig()
	case app.schemaPath:
		err = app.ReloadSchema()
	default:
		return
	}
	if err != nil {
		app.Logger().Error("reload failed", "path", ev.Path, "error", err)
	}
}

// ReloadConfig re-reads the settings file and environment and applies
// the new log level. Other settings take effect on the next schema reload.
func (app *Application) ReloadConfig() error {
	if app.closed.Load() {
		return ErrClosed
	}
	if err := app.config.Reload(); err != nil {
		return NewOperationError("reload", "config", err)
	}
	if err := app.applyOverrides(app.config); err != nil {
		return NewOperationError("reload", "config", err)
	}
	app.logging.SetLevel(app.config.Logging().Level)
	app.metrics.RecordConfigReload()
	app.Logger().Info("config reloaded", "sources", app.config.Sources(), "level", app.logging.Level())
	return nil
}

// ReloadSchema rebuilds the schema from schema.path and moves the current
// document into it. A new editor replaces the old one, so history and the
// change log start over; the Lua doc module is rebound to it. When the
// document does not fit the new schema, the old schema stays active and
// ErrSchemaReload is returned.
func (app *Application) ReloadSchema() error {
	if app.closed.Load() {
		return ErrClosed
	}

	path := app.config.Schema().Path
	schema, err := app.loadSchema(path)
	if err != nil {
		return NewOperationError("reload schema", path, err)
	}

	old := app.Editor()
	data, err := json.Marshal(old.Doc())
	if err != nil {
		return NewOperationError("reload schema", path, err)
	}
	doc, err := schema.NodeFromJSON(data)
	if err != nil {
		return NewOperationError("reload schema", path, fmt.Errorf("%w: %w", ErrSchemaReload, err))
	}

	ed, err := engine.New(schema, append(app.editorOptions(), engine.WithDoc(doc))...)
	if err != nil {
		return NewOperationError("reload schema", path, err)
	}
	if err := app.script.Register(lua.NewEditorModule(ed)); err != nil {
		return NewOperationError("reload schema", path, err)
	}

	app.mu.Lock()
	app.schema = schema
	app.editor = ed
	app.mu.Unlock()

	ev := event.NewEvent(events.TopicSchemaReloaded, events.SchemaReloaded{Path: path, Schema: schema}, eventSource)
	if err := app.eventBus.Publish(context.Background(), ev); err != nil {
		app.Logger().Warn("schema reload handlers failed", "error", err)
	}
	return nil
}
