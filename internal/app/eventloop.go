package app

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dshills/quill/internal/config"
	"github.com/dshills/quill/internal/geometry"
	"github.com/dshills/quill/internal/input/key"
	"github.com/dshills/quill/internal/listbox"
	"github.com/dshills/quill/internal/logging"
	"github.com/dshills/quill/internal/term"
)

// handleEvent processes a terminal event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleEvent(ev term.Event) error {
	switch ev.Type {
	case term.EventKey:
		return app.handleKey(ev.Key)
	case term.EventMouse:
		app.handleMouse(ev)
	case term.EventResize:
		app.handleResize(ev.Width, ev.Height)
	case term.EventPaste:
		app.handlePaste(ev.PasteStart)
	case term.EventFunc:
		ev.Func()
	}
	return nil
}

// handleKey handles the application bindings and passes everything else
// to the editor view, whose suggestion instances see the key first.
func (app *Application) handleKey(ev key.Event) error {
	app.dirty = true
	if app.pasting {
		app.collectPaste(ev)
		return nil
	}

	keys := app.cfg.Keys
	if slices.ContainsFunc(keys.Quit, ev.Matches) {
		return ErrQuit
	}
	if keys.EnableAll != "" && ev.Matches(keys.EnableAll) {
		app.EnableAllTriggers()
		return nil
	}
	if ev.IsModified() {
		for _, tc := range app.cfg.Triggers {
			if spec := keys.ToggleSpec(tc.Char); spec != "" && ev.Matches(spec) {
				return app.SetTriggerEnabled(tc.Name, !app.TriggerEnabled(tc.Name))
			}
		}
	}
	if keys.Dismiss != "" && ev.Matches(keys.Dismiss) && app.dismiss() {
		return nil
	}
	app.view.HandleKey(ev)
	return nil
}

// dismiss resets the active suggestion, if any.
func (app *Application) dismiss() bool {
	state := app.view.State()
	for _, t := range app.triggers {
		if s, ok := t.plugin.StateOf(state); !ok || !s.Active {
			continue
		}
		if err := t.plugin.Disable(app.view); err != nil {
			app.logger.Warn("dismiss suggestion", "trigger", t.name, "error", err)
		}
		return true
	}
	return false
}

// handlePaste brackets pasted input. Keys arriving between the start and
// end markers are collected and inserted as one transaction.
func (app *Application) handlePaste(start bool) {
	if start {
		app.pasting = true
		app.paste.Reset()
		return
	}
	if !app.pasting {
		return
	}
	app.pasting = false
	text := app.paste.String()
	app.paste.Reset()
	if text == "" {
		return
	}
	if err := app.view.Paste(text); err != nil {
		app.logger.Warn("paste", "error", err)
	}
	app.dirty = true
}

func (app *Application) collectPaste(ev key.Event) {
	switch {
	case ev.IsRune():
		app.paste.WriteRune(ev.Rune)
	case ev.Key == key.KeyEnter:
		app.paste.WriteByte('\n')
	case ev.Key == key.KeyTab:
		app.paste.WriteByte('\t')
	}
}

func (app *Application) handleMouse(ev term.Event) {
	switch ev.Button {
	case term.MouseWheelUp:
		app.view.Scroll(-1)
	case term.MouseWheelDown:
		app.view.Scroll(1)
	case term.MouseLeft:
		if app.clickPopover(ev.X, ev.Y) {
			break
		}
		b := app.view.BoundingRect()
		if ev.Y >= b.Top && ev.Y < b.Bottom && ev.X >= b.Left && ev.X < b.Right {
			if err := app.view.ClickAt(ev.X, ev.Y); err != nil {
				app.logger.Warn("click", "error", err)
			}
		}
	default:
		return
	}
	app.dirty = true
}

// clickPopover selects the item under (x, y) in an interactive popover.
// It reports whether the click landed on a popover.
func (app *Application) clickPopover(x, y int) bool {
	for _, t := range app.triggers {
		p := t.popover
		if !p.Interactive() {
			continue
		}
		r := p.Placement().Rect
		if y < r.Top || y >= r.Bottom || x < r.Left || x >= r.Right {
			continue
		}
		rows := p.List().Window()
		if i := y - r.Top; i < len(rows) && rows[i].Kind == listbox.RowItem && !rows[i].Item.Disabled {
			p.List().Select(rows[i].Item.Value)
		}
		return true
	}
	return false
}

// handleResize lays the view out above the status row and notifies the
// popovers observing the screen.
func (app *Application) handleResize(width, height int) {
	app.view.SetBounds(viewRect(width, height))
	app.observers.Notify(app.screen, geometry.Size{Width: width, Height: height})
	app.screen.Sync()
	app.dirty = true
}

func viewRect(width, height int) geometry.Rect {
	return geometry.RectFromSize(0, 0, max(height-1, 0), width)
}

func (app *Application) draw() {
	app.screen.Clear()
	app.screen.DrawView(app.view)
	for _, t := range app.triggers {
		if t.popover.IsOpen() {
			app.screen.DrawPopover(t.popover, app.screen.BoundingRect())
		}
	}
	app.screen.DrawStatus(app.statusLine())
	app.screen.Show()
	app.dirty = false
}

// statusLine lists the triggers and the current message.
func (app *Application) statusLine() string {
	var sb strings.Builder
	sb.WriteString(" quill")
	for _, tc := range app.cfg.Triggers {
		state := "off"
		if app.TriggerEnabled(tc.Name) {
			state = "on"
		}
		fmt.Fprintf(&sb, "  %s %s:%s", tc.Char, tc.Name, state)
	}
	fmt.Fprintf(&sb, "  (%s)", app.enabledSummary())
	if keys := app.cfg.Keys; keys.Toggle != "" {
		fmt.Fprintf(&sb, "  %s+<char> toggle", keys.Toggle)
	}
	fmt.Fprintf(&sb, "  %s quit", app.cfg.Keys.Quit[0])
	if app.status != "" {
		sb.WriteString("  | ")
		sb.WriteString(app.status)
	}
	return sb.String()
}

// startWatcher reloads the configuration when its file changes. Reloads
// are applied on the event loop.
func (app *Application) startWatcher() error {
	w, err := config.Watch(app.opts.ConfigPath,
		config.WithWatchLogger(logging.WithComponent(app.logger, "config")),
	)
	if err != nil {
		return NewComponentError("watcher", "start", err)
	}
	app.watcher = w

	go func() {
		for {
			select {
			case <-app.stopWatch:
				return
			case cfg := <-w.Configs():
				app.post(func() { _ = app.ApplyConfig(cfg) })
			case err := <-w.Errors():
				app.post(func() { app.setStatus("config: " + err.Error()) })
			}
		}
	}()
	return nil
}
