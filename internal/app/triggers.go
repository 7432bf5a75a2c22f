package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/quill/internal/checkbox"
	"github.com/dshills/quill/internal/config"
	"github.com/dshills/quill/internal/editor"
	"github.com/dshills/quill/internal/logging"
	"github.com/dshills/quill/internal/popover"
	"github.com/dshills/quill/internal/suggest"
	"github.com/dshills/quill/internal/suggest/luamatch"
)

// Atom attributes set on inserted suggestions.
const (
	AttrTrigger = "trigger"
	AttrValue   = "value"
)

// trigger is one configured suggestion instance with its popover.
type trigger struct {
	name   string
	char   string
	source string

	plugin  *suggest.Plugin
	popover *popover.Popover
	script  *luamatch.Script
}

func (t *trigger) close() {
	t.popover.Close()
	t.plugin.Close()
	if t.script != nil {
		_ = t.script.Close()
	}
}

// newTrigger builds the popover, the optional Lua matcher and the
// suggestion instance for tc.
func (app *Application) newTrigger(tc config.Trigger) (*trigger, error) {
	t := &trigger{name: tc.Name, char: tc.Char, source: tc.Source}
	logger := logging.WithComponent(app.logger, "trigger").With("trigger", tc.Name)
	component := "trigger " + tc.Name

	var matcher suggest.Matcher
	if tc.Script != "" {
		src, err := os.ReadFile(app.scriptPath(tc.Script))
		if err != nil {
			return nil, NewComponentError(component, "read script", err)
		}
		script, err := luamatch.Load(tc.Name, string(src), luamatch.WithGlobal("trigger", tc.Char))
		if err != nil {
			return nil, NewComponentError(component, "load script", err)
		}
		t.script = script
		matcher = script.Matcher(func(err error) {
			logger.Warn("matcher script failed", "error", err)
		})
	}

	pc := app.cfg.Popover
	t.popover = popover.New(
		popover.WithName(tc.Name),
		popover.WithSearcher(app.sources.Searcher(tc.Source)),
		popover.WithPost(app.post),
		popover.WithPlacement(popover.PlacementOptions{
			Offset:  pc.Offset,
			Padding: pc.Padding,
			Flip:    pc.Flip,
		}),
		popover.WithMaxHeight(pc.MaxHeight),
		popover.WithObserver(app.observers, app.screen),
		popover.OnSelect(func(value string, r suggest.Range) {
			app.insertAtom(t, value, r)
		}),
		popover.OnChange(app.invalidate),
		popover.WithLogger(logger),
	)

	opts := []suggest.Option{
		suggest.WithName(tc.Name),
		suggest.WithRegistry(app.suggests),
		suggest.WithLogger(logger),
	}
	if matcher != nil {
		opts = append(opts, suggest.WithMatcher(matcher))
	} else {
		opts = append(opts, suggest.WithTrigger(tc.Char))
	}
	if tc.Decorate {
		opts = append(opts, suggest.WithDecoration(map[string]string{AttrTrigger: tc.Name}))
	}

	plugin, err := suggest.New(t.popover, opts...)
	if err != nil {
		t.popover.Close()
		if t.script != nil {
			_ = t.script.Close()
		}
		return nil, NewComponentError(component, "create", err)
	}
	t.plugin = plugin
	return t, nil
}

// scriptPath resolves relative script paths against the config file.
func (app *Application) scriptPath(path string) string {
	if filepath.IsAbs(path) || app.opts.ConfigPath == "" {
		return path
	}
	return filepath.Join(filepath.Dir(app.opts.ConfigPath), path)
}

// installTriggers replaces the installed suggestion instances with one per
// enabled trigger. Triggers that fail to build are skipped and reported.
func (app *Application) installTriggers() error {
	app.removeTriggers()

	var plugins []editor.Plugin
	var errs []error
	for _, tc := range app.cfg.Triggers {
		if !app.enabled.Checked(tc.Name) {
			continue
		}
		t, err := app.newTrigger(tc)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		app.triggers = append(app.triggers, t)
		plugins = append(plugins, t.plugin)
	}
	if len(plugins) > 0 {
		app.unregister = app.view.Register(plugins, editor.Head)
	}
	app.logger.Debug("triggers installed", "count", len(plugins))
	app.dirty = true
	return errors.Join(errs...)
}

func (app *Application) removeTriggers() {
	if app.unregister != nil {
		app.unregister()
		app.unregister = nil
	}
	for _, t := range app.triggers {
		t.close()
	}
	app.triggers = nil
}

// syncEnabled registers every configured trigger with the enabled group.
// New triggers start enabled; triggers no longer configured are released.
func (app *Application) syncEnabled() {
	configured := make(map[string]bool, len(app.cfg.Triggers))
	var added []string
	for _, tc := range app.cfg.Triggers {
		configured[tc.Name] = true
		if _, ok := app.unrefs[tc.Name]; ok {
			continue
		}
		app.unrefs[tc.Name] = app.enabled.Register(tc.Name, false, nil)
		if !app.enabled.Checked(tc.Name) {
			added = append(added, tc.Name)
		}
	}
	for name, unref := range app.unrefs {
		if !configured[name] {
			unref()
			delete(app.unrefs, name)
		}
	}
	if len(added) > 0 {
		app.enabled.SetValues(append(app.enabled.Values(), added...))
	}
}

// SetTriggerEnabled turns a configured trigger on or off.
func (app *Application) SetTriggerEnabled(name string, on bool) error {
	if _, ok := app.cfg.Trigger(name); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTrigger, name)
	}
	app.enabled.Toggle(name, on)
	return nil
}

// TriggerEnabled reports whether the named trigger is on.
func (app *Application) TriggerEnabled(name string) bool {
	return app.enabled.Checked(name)
}

// EnableAllTriggers turns every configured trigger on.
func (app *Application) EnableAllTriggers() {
	app.enabled.SelectAll("")
}

func (app *Application) enabledChanged(values []string) {
	app.logger.Info("triggers changed", "enabled", strings.Join(values, ","))
	if err := app.installTriggers(); err != nil {
		app.logger.Warn("some triggers are unavailable", "error", err)
		app.setStatus(err.Error())
	}
}

// ApplyConfig switches to cfg. Triggers are rebuilt and the view's
// editability follows the new configuration; an invalid cfg is rejected
// and the current configuration kept.
func (app *Application) ApplyConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		app.logger.Warn("rejecting config", "error", err)
		app.setStatus("config: " + err.Error())
		return err
	}
	app.cfg = cfg
	app.view.SetEditable(!cfg.Editor.ReadOnly)
	app.syncEnabled()
	if err := app.installTriggers(); err != nil {
		app.setStatus(err.Error())
		return err
	}
	app.setStatus("config reloaded")
	return nil
}

// insertAtom replaces r with an atom for the selected value and moves the
// caret after it.
func (app *Application) insertAtom(t *trigger, value string, r suggest.Range) {
	label := value
	if c, err := app.sources.Catalog(t.source); err == nil {
		if rec, ok := c.Record(value); ok {
			label = rec.Label
		}
	}

	tr := app.view.State().Tr()
	atom := editor.Atom(t.char+label, map[string]string{AttrTrigger: t.name, AttrValue: value})
	if err := tr.Replace(r.From, r.To, atom); err != nil {
		app.logger.Warn("insert suggestion", "trigger", t.name, "error", err)
		return
	}
	tr.SetSelection(editor.Caret(r.From + 1))
	if err := app.view.Dispatch(tr); err != nil {
		app.logger.Warn("insert suggestion", "trigger", t.name, "error", err)
		return
	}
	app.logger.Debug("suggestion inserted", "trigger", t.name, "value", value)
	app.dirty = true
}

// enabledSummary describes the trigger group for the status line.
func (app *Application) enabledSummary() string {
	switch app.enabled.Status("") {
	case checkbox.Checked:
		return "all triggers on"
	case checkbox.Indeterminate:
		return "some triggers on"
	default:
		return "triggers off"
	}
}
