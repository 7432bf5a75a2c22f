package editor

import (
	"log/slog"

	"github.com/dshills/quill/internal/geometry"
)

// Option configures a View.
type Option func(*View)

// WithEditable sets whether the view accepts edits.
func WithEditable(editable bool) Option {
	return func(v *View) {
		v.editable = editable
	}
}

// WithBounds sets the screen rectangle the view is drawn into.
func WithBounds(r geometry.Rect) Option {
	return func(v *View) {
		v.bounds = r
	}
}

// WithTabWidth sets the tab width used by the layout.
func WithTabWidth(width int) Option {
	return func(v *View) {
		if width > 0 {
			v.tabWidth = width
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(v *View) {
		if l != nil {
			v.logger = l
		}
	}
}
