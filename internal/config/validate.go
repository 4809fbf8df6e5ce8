package config

import (
	"slices"
	"strings"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// validate checks merged settings. Only settings with a constrained
// range are checked; unknown keys are allowed.
func validate(data map[string]any) error {
	c := &Config{data: data}

	if n, err := c.GetInt("history.maxEntries"); err != nil {
		return validationErr("history.maxEntries", err)
	} else if n < 1 {
		return &ValidationError{Path: "history.maxEntries", Message: "must be at least 1", Value: n, Code: ErrCodeOutOfRange}
	}
	for _, path := range []string{"tracking.maxChanges", "tracking.maxRevisions"} {
		if n, err := c.GetInt(path); err != nil {
			return validationErr(path, err)
		} else if n < 0 {
			return &ValidationError{Path: path, Message: "must not be negative", Value: n, Code: ErrCodeOutOfRange}
		}
	}
	if err := oneOf(c, "logging.level", logLevels); err != nil {
		return err
	}
	if err := oneOf(c, "logging.format", logFormats); err != nil {
		return err
	}
	for _, path := range []string{"schema.debounce", "script.timeout"} {
		if d, err := c.GetDuration(path); err != nil {
			return validationErr(path, err)
		} else if d < 0 {
			return &ValidationError{Path: path, Message: "must not be negative", Value: d, Code: ErrCodeOutOfRange}
		}
	}
	return nil
}

func oneOf(c *Config, path string, allowed []string) error {
	s, err := c.GetString(path)
	if err != nil {
		return validationErr(path, err)
	}
	if !slices.Contains(allowed, s) {
		return &ValidationError{Path: path, Message: "must be one of " + strings.Join(allowed, ", "), Value: s, Code: ErrCodeInvalidEnum}
	}
	return nil
}

func validationErr(path string, err error) error {
	if err == ErrSettingNotFound {
		return &ValidationError{Path: path, Message: "missing", Code: ErrCodeRequiredMissing}
	}
	return &ValidationError{Path: path, Message: err.Error(), Code: ErrCodeTypeMismatch}
}
