// Package logging sets up the structured logger shared by all components.
//
// Quill owns the terminal while it runs, so logs go to a file or nowhere.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ParseLogLevel parses a level name. Unknown names yield Info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ValidLevel reports whether s names a log level.
func ValidLevel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// Config configures New.
type Config struct {
	// Level is the minimum level, as accepted by ParseLogLevel.
	Level string

	// File is the log file. Parent directories are created.
	File string

	// Output is used instead of File when set.
	Output io.Writer
}

// New creates a text logger. The returned closer releases the log file and
// must be called on shutdown.
func New(cfg Config) (*slog.Logger, io.Closer, error) {
	out := cfg.Output
	var closer io.Closer = nopCloser{}

	if out == nil && cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		out, closer = f, f
	}
	if out == nil {
		return Discard(), closer, nil
	}

	h := slog.NewTextHandler(out, &slog.HandlerOptions{Level: ParseLogLevel(cfg.Level)})
	return slog.New(h), closer, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// WithComponent returns a logger tagging every record with component.
func WithComponent(l *slog.Logger, component string) *slog.Logger {
	return l.With("component", component)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
