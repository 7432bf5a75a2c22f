package app

import (
	"context"
	"time"

	"github.com/dshills/quill/internal/checkbox"
	"github.com/dshills/quill/internal/config"
	"github.com/dshills/quill/internal/editor"
	"github.com/dshills/quill/internal/logging"
	"github.com/dshills/quill/internal/observe"
	"github.com/dshills/quill/internal/source"
	"github.com/dshills/quill/internal/suggest"
	"github.com/dshills/quill/internal/term"
)

// bootstrapper initializes components in dependency order.
type bootstrapper struct {
	app  *Application
	opts Options
}

func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{app: app, opts: opts}
}

func (b *bootstrapper) bootstrap() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"config", b.initConfig},
		{"sources", b.initSources},
		{"screen", b.initScreen},
		{"view", b.initView},
		{"triggers", b.initTriggers},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			b.app.logger.Error("bootstrap failed", "component", step.name, "error", err)
			return &InitError{Component: step.name, Err: err}
		}
	}
	return nil
}

func (b *bootstrapper) initConfig() error {
	app := b.app
	app.logger = b.opts.Logger
	if app.logger == nil {
		app.logger = logging.Discard()
	}

	cfg := b.opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Load(b.opts.ConfigPath); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	app.cfg = cfg
	return nil
}

// initSources loads the built-in catalogs. Catalogs that fail to load are
// reported here and again by every search against them.
func (b *bootstrapper) initSources() error {
	app := b.app
	if b.opts.Sources != nil {
		app.sources = b.opts.Sources
		return nil
	}

	pc := app.cfg.Popover
	set, err := source.LoadBuiltin(context.Background(),
		source.WithLimit(pc.Limit),
		source.WithDelay(time.Duration(pc.DelayMS)*time.Millisecond),
		source.WithLogger(logging.WithComponent(app.logger, "source")),
	)
	if err != nil {
		app.logger.Warn("some catalogs failed to load", "error", err)
	}
	app.sources = set
	return nil
}

func (b *bootstrapper) initScreen() error {
	app := b.app
	if b.opts.Screen != nil {
		app.screen = b.opts.Screen
		return nil
	}
	screen, err := term.NewTerminal(term.WithLogger(logging.WithComponent(app.logger, "term")))
	if err != nil {
		return err
	}
	app.screen = screen
	return nil
}

func (b *bootstrapper) initView() error {
	app := b.app
	ec := app.cfg.Editor
	doc := editor.FromText(ec.Text)
	app.view = editor.NewView(
		editor.NewState(doc, editor.Caret(doc.Size())),
		editor.WithEditable(!ec.ReadOnly),
		editor.WithTabWidth(ec.TabWidth),
		editor.WithLogger(logging.WithComponent(app.logger, "editor")),
	)
	app.suggests = suggest.NewRegistry()
	app.observers = observe.NewRegistry()
	return nil
}

func (b *bootstrapper) initTriggers() error {
	app := b.app
	names := make([]string, 0, len(app.cfg.Triggers))
	for _, t := range app.cfg.Triggers {
		names = append(names, t.Name)
	}
	app.enabled = checkbox.New[string](
		checkbox.WithName[string]("triggers"),
		checkbox.WithValue(names...),
		checkbox.OnChange(app.enabledChanged),
		checkbox.WithLogger[string](logging.WithComponent(app.logger, "checkbox")),
	)
	app.syncEnabled()
	if err := app.installTriggers(); err != nil {
		app.logger.Warn("some triggers are unavailable", "error", err)
		app.status = err.Error()
	}
	return nil
}
