package config

import "time"

// HistoryConfig contains undo/redo settings.
type HistoryConfig struct {
	// MaxEntries bounds the undo stack.
	MaxEntries int
}

// TrackingConfig contains change log settings.
type TrackingConfig struct {
	// MaxChanges bounds the number of recorded changes kept for mapping.
	MaxChanges int
	// MaxRevisions bounds the number of stored document revisions.
	MaxRevisions int
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string
	// Format is text or json.
	Format string
	// File is the log file path. Empty logs to stderr.
	File string
}

// SchemaConfig names the schema definition file.
type SchemaConfig struct {
	// Path is a TOML, YAML, or JSON schema definition. Empty selects the
	// built-in basic schema.
	Path string
	// Watch reloads the schema when the file changes.
	Watch bool
	// Debounce coalesces bursts of file events.
	Debounce time.Duration
}

// ScriptConfig contains Lua scripting settings.
type ScriptConfig struct {
	// Timeout bounds the run time of one script.
	Timeout time.Duration
	// CallStackSize is the Lua call stack size.
	CallStackSize int
}

// EditorConfig contains editor facade settings.
type EditorConfig struct {
	ReadOnly bool
}

// History returns type-safe access to undo/redo settings.
func (c *Config) History() HistoryConfig {
	return HistoryConfig{
		MaxEntries: c.getIntOr("history.maxEntries", 100),
	}
}

// Tracking returns type-safe access to change log settings.
func (c *Config) Tracking() TrackingConfig {
	return TrackingConfig{
		MaxChanges:   c.getIntOr("tracking.maxChanges", 10000),
		MaxRevisions: c.getIntOr("tracking.maxRevisions", 100),
	}
}

// Logging returns type-safe access to logging settings.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level:  c.getStringOr("logging.level", "info"),
		Format: c.getStringOr("logging.format", "text"),
		File:   c.getStringOr("logging.file", ""),
	}
}

// Schema returns type-safe access to schema file settings.
func (c *Config) Schema() SchemaConfig {
	return SchemaConfig{
		Path:     c.getStringOr("schema.path", ""),
		Watch:    c.getBoolOr("schema.watch", false),
		Debounce: c.getDurationOr("schema.debounce", 100*time.Millisecond),
	}
}

// Script returns type-safe access to scripting settings.
func (c *Config) Script() ScriptConfig {
	return ScriptConfig{
		Timeout:       c.getDurationOr("script.timeout", 5*time.Second),
		CallStackSize: c.getIntOr("script.callStackSize", 120),
	}
}

// Editor returns type-safe access to editor settings.
func (c *Config) Editor() EditorConfig {
	return EditorConfig{
		ReadOnly: c.getBoolOr("editor.readOnly", false),
	}
}

// defaultConfig returns the default configuration values.
func defaultConfig() map[string]any {
	return map[string]any{
		"editor": map[string]any{
			"readOnly": false,
		},
		"history": map[string]any{
			"maxEntries": 100,
		},
		"tracking": map[string]any{
			"maxChanges":   10000,
			"maxRevisions": 100,
		},
		"logging": map[string]any{
			"level":  "info",
			"format": "text",
			"file":   "",
		},
		"schema": map[string]any{
			"path":     "",
			"watch":    false,
			"debounce": "100ms",
		},
		"script": map[string]any{
			"timeout":       "5s",
			"callStackSize": 120,
		},
	}
}
