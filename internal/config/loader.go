package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Loader assembles configurations.
type Loader struct {
	fs  FileSystem
	env *EnvLoader
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFS sets the file system files are read from.
func WithFS(fsys FileSystem) LoaderOption {
	return func(l *Loader) {
		l.fs = fsys
	}
}

// WithEnv sets the environment loader.
func WithEnv(env *EnvLoader) LoaderOption {
	return func(l *Loader) {
		l.env = env
	}
}

// NewLoader creates a loader reading from the OS with the QUILL_ prefix.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		fs:  OSFS{},
		env: NewEnvLoader(EnvPrefix),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the defaults overridden by the file at path and the
// environment. An empty path skips the file.
func (l *Loader) Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := l.fs.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := decode(path, data, cfg); err != nil {
			return nil, err
		}
	}

	if err := l.env.Apply(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load loads a configuration with the default loader.
func Load(path string) (*Config, error) {
	return NewLoader().Load(path)
}

// decode parses data into cfg according to the extension of path. Lists
// in the file (triggers, quit keys) replace the defaults as a whole.
func decode(path string, data []byte, cfg *Config) error {
	defaults, quit := cfg.Triggers, cfg.Keys.Quit
	cfg.Triggers, cfg.Keys.Quit = nil, nil

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(cfg)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return newParseError(path, err)
	}

	if cfg.Triggers == nil {
		cfg.Triggers = defaults
	}
	if cfg.Keys.Quit == nil {
		cfg.Keys.Quit = quit
	}
	return nil
}

func newParseError(path string, err error) *ParseError {
	pe := &ParseError{Path: path, Message: err.Error(), Err: err}

	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		pe.Line, pe.Column = derr.Position()
		return pe
	}
	var serr *toml.StrictMissingError
	if errors.As(err, &serr) {
		pe.Message = serr.String()
	}
	return pe
}

// DefaultPath returns the default config file location, preferring an
// existing config.toml over config.yaml. It returns "" when neither exists.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		p := filepath.Join(dir, "quill", name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
