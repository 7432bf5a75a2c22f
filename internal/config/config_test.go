package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS map[string]string

func (m MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(data), nil
}

func noEnv(string) (string, bool) { return "", false }

func newTestLoader(files MemFS, env map[string]string) *Loader {
	el := NewEnvLoader(EnvPrefix)
	el.lookup = func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	return NewLoader(WithFS(files), WithEnv(el))
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("expected default config to be valid: %v", err)
	}
	if _, ok := Default().Trigger("mention"); !ok {
		t.Error("expected mention trigger")
	}
}

func TestLoadTOML(t *testing.T) {
	files := MemFS{"/quill.toml": `
[logging]
level = "debug"

[editor]
tab_width = 2

[popover]
max_height = 5
flip = false

[[triggers]]
name = "emoji"
char = ":"
source = "products"
`}
	cfg, err := newTestLoader(files, nil).Load("/quill.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Logging.Level != "debug" || cfg.Editor.TabWidth != 2 {
		t.Errorf("unexpected values %+v", cfg)
	}
	if cfg.Popover.MaxHeight != 5 || cfg.Popover.Flip || cfg.Popover.Limit != 10 {
		t.Errorf("expected file values over defaults, got %+v", cfg.Popover)
	}
	if len(cfg.Triggers) != 1 || cfg.Triggers[0].Char != ":" {
		t.Errorf("expected triggers to be replaced, got %+v", cfg.Triggers)
	}
}

func TestLoadYAML(t *testing.T) {
	files := MemFS{"/quill.yml": `
logging:
  level: warn
editor:
  read_only: true
`}
	cfg, err := newTestLoader(files, nil).Load("/quill.yml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Logging.Level != "warn" || !cfg.Editor.ReadOnly {
		t.Errorf("unexpected values %+v", cfg)
	}
	if len(cfg.Triggers) != 2 {
		t.Errorf("expected default triggers to be kept, got %d", len(cfg.Triggers))
	}
}

func TestLoadEmptyYAML(t *testing.T) {
	cfg, err := newTestLoader(MemFS{"/q.yaml": ""}, nil).Load("/q.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Editor.TabWidth != 4 {
		t.Errorf("expected defaults, got %+v", cfg.Editor)
	}
}

func TestEnvOverrides(t *testing.T) {
	files := MemFS{"/quill.toml": "[editor]\ntab_width = 2\n"}
	env := map[string]string{
		"QUILL_TAB_WIDTH":        "8",
		"QUILL_LOG_LEVEL":        "error",
		"QUILL_POPOVER_FLIP":     "off",
		"QUILL_POPOVER_DELAY_MS": "250",
	}
	cfg, err := newTestLoader(files, env).Load("/quill.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Editor.TabWidth != 8 || cfg.Logging.Level != "error" || cfg.Popover.Flip || cfg.Popover.DelayMS != 250 {
		t.Errorf("expected env to win, got %+v", cfg)
	}

	_, err = newTestLoader(nil, map[string]string{"QUILL_TAB_WIDTH": "wide"}).Load("")
	if !errors.Is(err, ErrValidationFailed) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestLoadKeys(t *testing.T) {
	files := MemFS{"/quill.toml": `
[keys]
quit = ["Ctrl+X"]
toggle = "Ctrl+Alt"
`}
	cfg, err := newTestLoader(files, map[string]string{"QUILL_KEYS_DISMISS": "Ctrl+G"}).Load("/quill.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Keys.Quit) != 1 || cfg.Keys.Quit[0] != "Ctrl+X" {
		t.Errorf("expected quit to be replaced, got %v", cfg.Keys.Quit)
	}
	if cfg.Keys.EnableAll != "Alt+A" {
		t.Errorf("expected default enable_all, got %q", cfg.Keys.EnableAll)
	}
	if cfg.Keys.Dismiss != "Ctrl+G" {
		t.Errorf("expected dismiss from environment, got %q", cfg.Keys.Dismiss)
	}
	if got := cfg.Keys.ToggleSpec("#"); got != "Ctrl+Alt+#" {
		t.Errorf("expected %q, got %q", "Ctrl+Alt+#", got)
	}

	cfg.Keys.Toggle = ""
	if got := cfg.Keys.ToggleSpec("#"); got != "" {
		t.Errorf("expected no toggle binding, got %q", got)
	}
}

func TestEnvLoaderWithProcessEnv(t *testing.T) {
	t.Setenv("QUILL_READ_ONLY", "yes")
	cfg := Default()
	if err := NewEnvLoader(EnvPrefix).Apply(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Editor.ReadOnly {
		t.Error("expected read only from environment")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		files MemFS
		path  string
		want  error
	}{
		{"missing", MemFS{}, "/none.toml", ErrFileNotFound},
		{"format", MemFS{"/q.json": "{}"}, "/q.json", ErrUnsupportedFormat},
		{"invalid level", MemFS{"/q.toml": "[logging]\nlevel = \"loud\"\n"}, "/q.toml", ErrValidationFailed},
		{"duplicate trigger", MemFS{"/q.yaml": "triggers:\n  - {name: a, char: '@', source: users}\n  - {name: a, char: '#', source: users}\n"}, "/q.yaml", ErrValidationFailed},
		{"whitespace trigger", MemFS{"/q.yaml": "triggers:\n  - {name: a, char: ' ', source: users}\n"}, "/q.yaml", ErrValidationFailed},
		{"invalid quit key", MemFS{"/q.toml": "[keys]\nquit = [\"Hyper+Q\"]\n"}, "/q.toml", ErrValidationFailed},
		{"no quit key", MemFS{"/q.yaml": "keys:\n  quit: []\n"}, "/q.yaml", ErrValidationFailed},
		{"invalid dismiss key", MemFS{"/q.yaml": "keys:\n  dismiss: NotAKey\n"}, "/q.yaml", ErrValidationFailed},
		{"invalid toggle", MemFS{"/q.yaml": "keys:\n  toggle: x\n"}, "/q.yaml", ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestLoader(tt.files, nil).Load(tt.path)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseError(t *testing.T) {
	files := MemFS{
		"/bad.toml":     "[editor\ntab_width = 2\n",
		"/unknown.toml": "[editor]\ncolour = \"red\"\n",
		"/bad.yaml":     "editor: [\n",
	}
	for path := range files {
		_, err := newTestLoader(files, nil).Load(path)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("%s: expected ParseError, got %v", path, err)
			continue
		}
		if pe.Path != path {
			t.Errorf("expected path %s, got %s", path, pe.Path)
		}
	}

	_, err := newTestLoader(files, nil).Load("/bad.toml")
	var pe *ParseError
	if errors.As(err, &pe) && pe.Line == 0 {
		t.Errorf("expected a line number, got %v", pe)
	}
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quill.toml")
	if err := os.WriteFile(path, []byte("[editor]\ntab_width = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	el := NewEnvLoader(EnvPrefix)
	el.lookup = noEnv
	w, err := Watch(path, WithDebounce(50*time.Millisecond), WithLoader(NewLoader(WithEnv(el))))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[editor]\ntab_width = 6\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-w.Configs():
		if cfg.Editor.TabWidth != 6 {
			t.Errorf("expected tab width 6, got %d", cfg.Editor.TabWidth)
		}
	case err := <-w.Errors():
		t.Fatalf("unexpected error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	if err := os.WriteFile(path, []byte("[editor\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-w.Errors():
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("expected ParseError, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for error")
	}

	if err := w.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
	if err := w.Close(); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("expected ErrWatcherClosed, got %v", err)
	}
}
