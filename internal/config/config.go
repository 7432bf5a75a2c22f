package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/dshills/quill/internal/input/key"
	"github.com/dshills/quill/internal/logging"
)

// Config is the complete Quill configuration.
type Config struct {
	Logging  Logging   `toml:"logging" yaml:"logging"`
	Editor   Editor    `toml:"editor" yaml:"editor"`
	Popover  Popover   `toml:"popover" yaml:"popover"`
	Keys     Keys      `toml:"keys" yaml:"keys"`
	Triggers []Trigger `toml:"triggers" yaml:"triggers"`
}

// Logging configures the log output. The terminal belongs to the UI, so
// without a file nothing is logged.
type Logging struct {
	Level string `toml:"level" yaml:"level"`
	File  string `toml:"file" yaml:"file"`
}

// Editor configures the editor view.
type Editor struct {
	TabWidth int    `toml:"tab_width" yaml:"tab_width"`
	ReadOnly bool   `toml:"read_only" yaml:"read_only"`
	Text     string `toml:"text" yaml:"text"`
}

// Popover configures suggestion popovers.
type Popover struct {
	MaxHeight int  `toml:"max_height" yaml:"max_height"`
	Offset    int  `toml:"offset" yaml:"offset"`
	Padding   int  `toml:"padding" yaml:"padding"`
	Flip      bool `toml:"flip" yaml:"flip"`
	Limit     int  `toml:"limit" yaml:"limit"`
	// DelayMS simulates backend latency for the demo sources.
	DelayMS int `toml:"delay_ms" yaml:"delay_ms"`
}

// Keys binds the application commands. Values are key specifications
// such as "Ctrl+Q" or "Escape".
type Keys struct {
	Quit      []string `toml:"quit" yaml:"quit"`
	Dismiss   string   `toml:"dismiss" yaml:"dismiss"`
	EnableAll string   `toml:"enable_all" yaml:"enable_all"`

	// Toggle is the modifier prefix that, followed by a trigger character,
	// turns that trigger on or off. Empty disables the toggles.
	Toggle string `toml:"toggle" yaml:"toggle"`
}

// ToggleSpec returns the key specification toggling a trigger with char,
// or "" when there is none.
func (k Keys) ToggleSpec(char string) string {
	if k.Toggle == "" || char == "" {
		return ""
	}
	return k.Toggle + "+" + char
}

// Trigger defines one suggestion instance.
type Trigger struct {
	Name     string `toml:"name" yaml:"name"`
	Char     string `toml:"char" yaml:"char"`
	Source   string `toml:"source" yaml:"source"`
	Script   string `toml:"script" yaml:"script"`
	Decorate bool   `toml:"decorate" yaml:"decorate"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: Logging{Level: "info"},
		Editor: Editor{
			TabWidth: 4,
			Text:     "Type @ to mention someone or # to tag a product.",
		},
		Popover: Popover{
			MaxHeight: 8,
			Flip:      true,
			Limit:     10,
		},
		Keys: Keys{
			Quit:      []string{"Ctrl+Q", "Ctrl+C"},
			Dismiss:   "Escape",
			EnableAll: "Alt+A",
			Toggle:    "Alt",
		},
		Triggers: DefaultTriggers(),
	}
}

// DefaultTriggers returns the mention and hashtag triggers.
func DefaultTriggers() []Trigger {
	return []Trigger{
		{Name: "mention", Char: "@", Source: "users", Decorate: true},
		{Name: "hashtag", Char: "#", Source: "products", Decorate: true},
	}
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs []error
	add := func(path, msg string, v any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: v})
	}

	if !logging.ValidLevel(c.Logging.Level) {
		add("logging.level", "must be one of debug, info, warn, error", c.Logging.Level)
	}
	if c.Editor.TabWidth < 1 || c.Editor.TabWidth > 16 {
		add("editor.tab_width", "must be between 1 and 16", c.Editor.TabWidth)
	}
	if c.Popover.MaxHeight < 1 {
		add("popover.max_height", "must be positive", c.Popover.MaxHeight)
	}
	if c.Popover.Offset < 0 {
		add("popover.offset", "must not be negative", c.Popover.Offset)
	}
	if c.Popover.Padding < 0 {
		add("popover.padding", "must not be negative", c.Popover.Padding)
	}
	if c.Popover.Limit < 1 {
		add("popover.limit", "must be positive", c.Popover.Limit)
	}
	if c.Popover.DelayMS < 0 {
		add("popover.delay_ms", "must not be negative", c.Popover.DelayMS)
	}

	for i, spec := range c.Keys.Quit {
		if _, err := key.Parse(spec); err != nil {
			add(fmt.Sprintf("keys.quit[%d]", i), err.Error(), spec)
		}
	}
	if len(c.Keys.Quit) == 0 {
		add("keys.quit", "needs at least one binding", c.Keys.Quit)
	}
	if c.Keys.Dismiss != "" {
		if _, err := key.Parse(c.Keys.Dismiss); err != nil {
			add("keys.dismiss", err.Error(), c.Keys.Dismiss)
		}
	}
	if c.Keys.EnableAll != "" {
		if _, err := key.Parse(c.Keys.EnableAll); err != nil {
			add("keys.enable_all", err.Error(), c.Keys.EnableAll)
		}
	}
	if c.Keys.Toggle != "" {
		if _, err := key.Parse(c.Keys.ToggleSpec("x")); err != nil {
			add("keys.toggle", "must be a modifier such as Alt or Ctrl+Alt", c.Keys.Toggle)
		}
	}

	names := make(map[string]bool)
	for i, t := range c.Triggers {
		path := fmt.Sprintf("triggers[%d]", i)
		switch {
		case t.Name == "":
			add(path+".name", "is required", t.Name)
		case names[t.Name]:
			add(path+".name", "is duplicated", t.Name)
		}
		names[t.Name] = true

		if t.Script == "" && !validChar(t.Char) {
			add(path+".char", "must be a non-empty trigger without whitespace", t.Char)
		}
		if t.Source == "" {
			add(path+".source", "is required", t.Source)
		}
	}

	return errors.Join(errs...)
}

func validChar(s string) bool {
	return s != "" && !strings.ContainsFunc(s, unicode.IsSpace)
}

// Trigger returns the trigger with name.
func (c *Config) Trigger(name string) (Trigger, bool) {
	for _, t := range c.Triggers {
		if t.Name == name {
			return t, true
		}
	}
	return Trigger{}, false
}
