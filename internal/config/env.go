package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvPrefix is the prefix of Quill environment variables.
const EnvPrefix = "QUILL_"

// EnvLoader applies environment variables to a configuration.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "QUILL_")
	mapping map[string]string // Env var suffix -> config path
	lookup  func(key string) (string, bool)
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "QUILL_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(),
		lookup:  os.LookupEnv,
	}
}

// defaultEnvMapping returns the default environment variable mappings.
func defaultEnvMapping() map[string]string {
	return map[string]string{
		"LOG_LEVEL":          "logging.level",
		"LOG_FILE":           "logging.file",
		"TAB_WIDTH":          "editor.tab_width",
		"READ_ONLY":          "editor.read_only",
		"POPOVER_MAX_HEIGHT": "popover.max_height",
		"POPOVER_OFFSET":     "popover.offset",
		"POPOVER_PADDING":    "popover.padding",
		"POPOVER_FLIP":       "popover.flip",
		"POPOVER_LIMIT":      "popover.limit",
		"POPOVER_DELAY_MS":   "popover.delay_ms",
		"KEYS_DISMISS":       "keys.dismiss",
		"KEYS_ENABLE_ALL":    "keys.enable_all",
		"KEYS_TOGGLE":        "keys.toggle",
	}
}

// Apply overrides cfg with every mapped variable that is set.
// Empty string values are treated as valid values, not as unset.
func (l *EnvLoader) Apply(cfg *Config) error {
	for suffix, path := range l.mapping {
		val, ok := l.lookup(l.prefix + suffix)
		if !ok {
			continue
		}
		if err := set(cfg, path, val); err != nil {
			return fmt.Errorf("%s%s: %w", l.prefix, suffix, err)
		}
	}
	return nil
}

// set assigns the raw value to the setting at path.
func set(cfg *Config, path, raw string) error {
	switch path {
	case "logging.level":
		cfg.Logging.Level = raw
	case "logging.file":
		cfg.Logging.File = raw
	case "editor.tab_width":
		return setInt(&cfg.Editor.TabWidth, path, raw)
	case "editor.read_only":
		return setBool(&cfg.Editor.ReadOnly, path, raw)
	case "popover.max_height":
		return setInt(&cfg.Popover.MaxHeight, path, raw)
	case "popover.offset":
		return setInt(&cfg.Popover.Offset, path, raw)
	case "popover.padding":
		return setInt(&cfg.Popover.Padding, path, raw)
	case "popover.flip":
		return setBool(&cfg.Popover.Flip, path, raw)
	case "popover.limit":
		return setInt(&cfg.Popover.Limit, path, raw)
	case "popover.delay_ms":
		return setInt(&cfg.Popover.DelayMS, path, raw)
	case "keys.dismiss":
		cfg.Keys.Dismiss = raw
	case "keys.enable_all":
		cfg.Keys.EnableAll = raw
	case "keys.toggle":
		cfg.Keys.Toggle = raw
	default:
		return &ValidationError{Path: path, Message: "unknown setting", Value: raw}
	}
	return nil
}

func setInt(dst *int, path, raw string) error {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return &ValidationError{Path: path, Message: "must be an integer", Value: raw}
	}
	*dst = n
	return nil
}

// setBool accepts true/yes/on/1 and false/no/off/0.
func setBool(dst *bool, path, raw string) error {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "on", "1":
		*dst = true
	case "false", "no", "off", "0":
		*dst = false
	default:
		return &ValidationError{Path: path, Message: "must be a boolean", Value: raw}
	}
	return nil
}

// AddMapping adds a custom environment variable mapping. suffix is the
// variable name without the prefix.
func (l *EnvLoader) AddMapping(suffix, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[suffix] = configPath
}

// RemoveMapping removes an environment variable mapping.
func (l *EnvLoader) RemoveMapping(suffix string) {
	delete(l.mapping, suffix)
}
