// Package config provides the configuration system for richedit.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← RICHEDIT_*, highest priority
//	├─────────────────────────────┤
//	│  2. Settings File           │  ← richedit.toml or richedit.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - loader: file loading (TOML, YAML, JSON) and environment variables
//   - watcher: fsnotify based file watching for live reload
//
// # Basic Usage
//
//	cfg, err := config.Load("richedit.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	max, err := cfg.GetInt("history.maxEntries")
//
//	// Typed sections fall back to defaults on type errors, which are
//	// available from ConfigErrors.
//	script := cfg.Script()
//	fmt.Println(script.Timeout)
//
// # Environment Variables
//
// RICHEDIT_SECTION_SETTING_NAME sets section.settingName, so
// RICHEDIT_HISTORY_MAX_ENTRIES=50 sets history.maxEntries. A few short
// names are mapped directly:
//
//	RICHEDIT_LOG_LEVEL   logging.level
//	RICHEDIT_LOG_FORMAT  logging.format
//	RICHEDIT_LOG_FILE    logging.file
//	RICHEDIT_SCHEMA      schema.path
//	RICHEDIT_READ_ONLY   editor.readOnly
//
// # Schema Files
//
// LoadSchema decodes a schema definition into model.SchemaSpec and
// compiles it:
//
//	[[nodes]]
//	name = "doc"
//	content = "block+"
//
//	[[nodes]]
//	name = "paragraph"
//	content = "inline*"
//	group = "block"
//
//	[[nodes]]
//	name = "text"
//	group = "inline"
//	inline = true
package config
