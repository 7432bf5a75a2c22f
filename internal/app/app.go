// Package app provides the main application structure and coordination
// for the quill demo. It wires an editor view, one suggestion instance and
// popover per configured trigger, the data catalogs and the terminal, and
// runs the event loop.
package app

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"strings"
	"sync/atomic"

	"github.com/dshills/quill/internal/checkbox"
	"github.com/dshills/quill/internal/config"
	"github.com/dshills/quill/internal/editor"
	"github.com/dshills/quill/internal/observe"
	"github.com/dshills/quill/internal/source"
	"github.com/dshills/quill/internal/suggest"
	"github.com/dshills/quill/internal/term"
)

// Application is the central coordinator for all quill components.
//
// Everything except Run's input polling happens on the goroutine calling
// Run; background work hands results back through the screen's event
// queue.
type Application struct {
	cfg    *config.Config
	logger *slog.Logger

	screen    *term.Screen
	view      *editor.View
	sources   *source.Set
	suggests  *suggest.Registry
	observers *observe.Registry

	// enabled holds the names of the active triggers.
	enabled *checkbox.Group[string]
	unrefs  map[string]func()

	triggers   []*trigger
	unregister func()

	watcher   *config.Watcher
	stopWatch chan struct{}

	running  atomic.Bool
	dirty    bool
	quitting bool
	status   string

	pasting bool
	paste   strings.Builder

	opts Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. It is loaded when Config is
	// nil, watched when Watch is set and anchors relative script paths.
	ConfigPath string

	// Config is an already loaded configuration.
	Config *config.Config

	// Watch reloads the configuration when ConfigPath changes.
	Watch bool

	Logger *slog.Logger

	// Screen replaces the controlling terminal, e.g. with a simulation
	// screen.
	Screen *term.Screen

	// Sources replaces the built-in catalogs.
	Sources *source.Set
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:      opts,
		unrefs:    make(map[string]func()),
		stopWatch: make(chan struct{}),
	}

	b := newBootstrapper(app, opts)
	if err := b.bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Run initializes the screen and processes events until the user quits
// or ctx is cancelled.
func (app *Application) Run(ctx context.Context) (err error) {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.screen.Init(); err != nil {
		return &InitError{Component: "screen", Err: err}
	}
	defer app.screen.Fini()
	defer func() {
		if r := recover(); r != nil {
			err = &RecoveredPanicError{Value: r, Stack: string(debug.Stack())}
		}
	}()

	stop := context.AfterFunc(ctx, func() {
		app.post(func() { app.quitting = true })
	})
	defer stop()

	if app.opts.Watch && app.opts.ConfigPath != "" {
		if err := app.startWatcher(); err != nil {
			app.logger.Warn("config watch disabled", "error", err)
		}
	}

	app.logger.Info("quill started", "triggers", len(app.triggers))
	app.handleResize(app.screen.Size())
	app.draw()

	for !app.quitting {
		ev, ok := app.screen.PollEvent()
		if !ok {
			return nil
		}
		if err := app.handleEvent(ev); err != nil {
			if errors.Is(err, ErrQuit) {
				app.logger.Info("quill stopped")
				return nil
			}
			return err
		}
		if app.dirty {
			app.draw()
		}
	}
	return nil
}

// Close releases the watcher, the suggestion instances and the view.
func (app *Application) Close() error {
	var err error
	if app.watcher != nil {
		close(app.stopWatch)
		err = app.watcher.Close()
		app.watcher = nil
	}
	app.removeTriggers()
	for name, unref := range app.unrefs {
		unref()
		delete(app.unrefs, name)
	}
	app.view.Destroy()
	return err
}

// IsRunning reports whether Run is active.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the active configuration.
func (app *Application) Config() *config.Config {
	return app.cfg
}

// View returns the editor view.
func (app *Application) View() *editor.View {
	return app.view
}

// Status returns the current status message.
func (app *Application) Status() string {
	return app.status
}

// post hands fn to the event loop.
func (app *Application) post(fn func()) {
	if err := app.screen.Post(fn); err != nil {
		app.logger.Warn("dropping posted update", "error", err)
	}
}

// invalidate requests a redraw.
func (app *Application) invalidate() {
	app.dirty = true
}

func (app *Application) setStatus(msg string) {
	app.status = msg
	app.dirty = true
}
