package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dshills/richedit/internal/config/loader"
)

// Config holds merged configuration: built-in defaults, then the settings
// file, then environment overrides. It is safe for concurrent use.
type Config struct {
	mu sync.RWMutex

	data    map[string]any
	sources []string

	path      string
	fs        loader.FileSystem
	envPrefix string
	useEnv    bool

	configErrors map[string]error
}

// Option configures how a Config is loaded.
type Option func(*Config)

// WithFileSystem sets the file system settings files are read from.
func WithFileSystem(fs loader.FileSystem) Option {
	return func(c *Config) {
		if fs != nil {
			c.fs = fs
		}
	}
}

// WithEnvPrefix sets the environment variable prefix. The default is
// loader.DefaultEnvPrefix.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithoutEnv disables environment overrides.
func WithoutEnv() Option {
	return func(c *Config) {
		c.useEnv = false
	}
}

// New returns a Config holding only the built-in defaults.
func New() *Config {
	return &Config{
		data:      defaultConfig(),
		sources:   []string{"defaults"},
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
		useEnv:    true,
	}
}

// Load builds a Config from defaults, the settings file at path (TOML or
// YAML, chosen by extension), and environment variables. An empty path
// skips the file layer; a path that does not exist is an error.
func Load(path string, opts ...Option) (*Config, error) {
	c := New()
	c.path = path
	for _, opt := range opts {
		opt(c)
	}
	if err := c.load(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads the settings file and environment. On error the
// previous values are kept.
func (c *Config) Reload() error {
	return c.load()
}

func (c *Config) load() error {
	data := defaultConfig()
	sources := []string{"defaults"}

	if c.path != "" {
		l, err := loader.ForPath(c.fs, c.path)
		if err != nil {
			return err
		}
		fileData, err := l.Load()
		if err != nil {
			return err
		}
		if fileData == nil {
			return fmt.Errorf("%s: %w", c.path, ErrFileNotFound)
		}
		data = loader.DeepMerge(data, fileData)
		sources = append(sources, c.path)
	}

	if c.useEnv {
		envData, err := loader.NewEnvLoader(c.envPrefix).Load()
		if err != nil {
			return err
		}
		if len(envData) > 0 {
			data = loader.DeepMerge(data, envData)
			sources = append(sources, "environment")
		}
	}

	if err := validate(data); err != nil {
		return err
	}

	c.mu.Lock()
	c.data = data
	c.sources = sources
	c.configErrors = nil
	c.mu.Unlock()
	return nil
}

// Path returns the settings file path, or "" when none was loaded.
func (c *Config) Path() string {
	return c.path
}

// Sources lists the layers merged into the current values, lowest
// priority first.
func (c *Config) Sources() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.sources...)
}

// Get returns the raw value at a dot-separated path.
func (c *Config) Get(path string) (any, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := getPath(c.data, path)
	if !ok {
		return nil, ErrSettingNotFound
	}
	return v, nil
}

// GetString returns a string setting.
func (c *Config) GetString(path string) (string, error) {
	v, err := c.Get(path)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer setting. Whole floats are accepted since
// some decoders produce them for plain numbers.
func (c *Config) GetInt(path string) (int, error) {
	v, err := c.Get(path)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n == float64(int(n)) {
			return int(n), nil
		}
	}
	return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
}

// GetBool returns a boolean setting.
func (c *Config) GetBool(path string) (bool, error) {
	v, err := c.Get(path)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetFloat returns a floating point setting.
func (c *Config) GetFloat(path string) (float64, error) {
	v, err := c.Get(path)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, &TypeError{Path: path, Expected: "float64", Actual: typeName(v)}
}

// GetDuration returns a duration setting, written as a string such as
// "500ms" or given as a number of milliseconds.
func (c *Config) GetDuration(path string) (time.Duration, error) {
	v, err := c.Get(path)
	if err != nil {
		return 0, err
	}
	switch d := v.(type) {
	case time.Duration:
		return d, nil
	case string:
		parsed, perr := time.ParseDuration(d)
		if perr != nil {
			return 0, &TypeError{Path: path, Expected: "duration", Actual: fmt.Sprintf("string %q", d)}
		}
		return parsed, nil
	case int:
		return time.Duration(d) * time.Millisecond, nil
	case int64:
		return time.Duration(d) * time.Millisecond, nil
	}
	return 0, &TypeError{Path: path, Expected: "duration", Actual: typeName(v)}
}

// Set overrides a value in memory. It is not persisted and is lost on
// Reload.
func (c *Config) Set(path string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return setPath(c.data, path, value)
}

// These methods only return the default for ErrSettingNotFound.
// Type errors are recorded and return the default to avoid breaking callers.

func (c *Config) getStringOr(path string, defaultValue string) string {
	v, err := c.GetString(path)
	if err != nil {
		c.recordIfMisconfigured(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) getIntOr(path string, defaultValue int) int {
	v, err := c.GetInt(path)
	if err != nil {
		c.recordIfMisconfigured(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) getBoolOr(path string, defaultValue bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		c.recordIfMisconfigured(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) getDurationOr(path string, defaultValue time.Duration) time.Duration {
	v, err := c.GetDuration(path)
	if err != nil {
		c.recordIfMisconfigured(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) recordIfMisconfigured(path string, err error) {
	if err == ErrSettingNotFound {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configErrors == nil {
		c.configErrors = make(map[string]error)
	}
	// The first error for a path is the original cause.
	if _, exists := c.configErrors[path]; !exists {
		c.configErrors[path] = err
	}
}

// ConfigErrors returns type errors met while reading typed sections.
func (c *Config) ConfigErrors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.configErrors == nil {
		return nil
	}
	result := make(map[string]error, len(c.configErrors))
	for k, v := range c.configErrors {
		result[k] = v
	}
	return result
}

// getPath retrieves a value from a nested map using a dot-separated path.
func getPath(m map[string]any, path string) (any, bool) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, false
	}

	current := any(m)
	for _, part := range parts {
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = cm[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// setPath sets a value in a nested map using a dot-separated path.
func setPath(m map[string]any, path string, value any) error {
	parts := splitPath(path)
	if len(parts) == 0 {
		return ErrInvalidPath
	}

	current := m
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part]
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		nextMap, ok := next.(map[string]any)
		if !ok {
			return ErrInvalidPath
		}
		current = nextMap
	}

	current[parts[len(parts)-1]] = value
	return nil
}

func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, ".") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64, uint64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case time.Duration:
		return "duration"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return fmt.Sprintf("%T", v)
	}
}
