package editor

import (
	"io"
	"log/slog"

	"github.com/dshills/quill/internal/geometry"
	"github.com/dshills/quill/internal/input/key"
)

type pluginView struct {
	key  *PluginKey
	view PluginView
}

// View displays a State and turns input into transactions.
//
// A View is not safe for concurrent use; all calls must come from the UI
// goroutine. Dispatch is re-entrant: transactions dispatched while plugin
// views are updating are queued and applied before the outermost Dispatch
// returns, so listeners only observe the settled state.
type View struct {
	state    *State
	editable bool
	bounds   geometry.Rect
	tabWidth int
	logger   *slog.Logger

	scrollTop int
	layout    *Layout
	layoutDoc *Doc
	layoutW   int

	composing bool
	compFrom  int
	compLen   int

	pluginViews []pluginView
	queue       []*Transaction
	dispatching bool
	destroyed   bool

	listeners   map[int]func(*View)
	listenerSeq int
}

// NewView creates a view for state.
func NewView(state *State, opts ...Option) *View {
	v := &View{
		state:     state,
		editable:  true,
		bounds:    geometry.RectFromSize(0, 0, 24, 80),
		tabWidth:  4,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		listeners: make(map[int]func(*View)),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.syncPluginViews(nil)
	return v
}

// State returns the current state.
func (v *View) State() *State {
	return v.state
}

// Editable reports whether the view accepts edits.
func (v *View) Editable() bool {
	return v.editable
}

// SetEditable toggles editing.
func (v *View) SetEditable(editable bool) {
	v.editable = editable
}

// Composing reports whether an IME composition is in progress.
func (v *View) Composing() bool {
	return v.composing
}

// IsDestroyed reports whether Destroy was called.
func (v *View) IsDestroyed() bool {
	return v.destroyed
}

// Logger returns the view's logger.
func (v *View) Logger() *slog.Logger {
	return v.logger
}

// Dispatch applies tr to the view.
func (v *View) Dispatch(tr *Transaction) error {
	if v.destroyed {
		return ErrViewDestroyed
	}
	tr.SetEnv(Env{Editable: v.editable, Composing: v.composing})
	v.queue = append(v.queue, tr)
	if v.dispatching {
		return nil
	}

	v.dispatching = true
	defer func() { v.dispatching = false }()

	var firstErr error
	for len(v.queue) > 0 && !v.destroyed {
		next := v.queue[0]
		v.queue = v.queue[1:]
		if err := v.apply(next); err != nil {
			v.logger.Warn("dispatch failed", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	v.queue = nil
	v.notify()
	return firstErr
}

func (v *View) apply(tr *Transaction) error {
	next, err := v.state.Apply(tr)
	if err != nil {
		return err
	}
	prev := v.state
	v.state = next
	v.ensureCaretVisible()
	for _, pv := range v.pluginViews {
		pv.view.Update(v, prev)
	}
	return nil
}

// UpdateState replaces the state, creating and destroying plugin views to
// match its plugin list.
func (v *View) UpdateState(state *State) {
	if v.destroyed {
		return
	}
	prev := v.state
	v.state = state
	v.syncPluginViews(prev)
	if !v.dispatching {
		v.notify()
	}
}

func (v *View) syncPluginViews(prev *State) {
	wanted := make(map[*PluginKey]bool)
	for _, p := range v.state.plugins {
		wanted[p.Key()] = true
	}

	existing := make(map[*PluginKey]PluginView)
	for _, pv := range v.pluginViews {
		if wanted[pv.key] {
			existing[pv.key] = pv.view
			continue
		}
		pv.view.Destroy()
	}

	views := make([]pluginView, 0, len(v.state.plugins))
	for _, p := range v.state.plugins {
		if pv, ok := existing[p.Key()]; ok {
			views = append(views, pluginView{key: p.Key(), view: pv})
			if prev != nil {
				pv.Update(v, prev)
			}
			continue
		}
		if vp, ok := p.(ViewPlugin); ok {
			views = append(views, pluginView{key: p.Key(), view: vp.NewView(v)})
		}
	}
	v.pluginViews = views
}

// Register adds plugins to the view's state at the given priority and
// returns a function that removes them again.
func (v *View) Register(plugins []Plugin, priority Priority) (unregister func()) {
	current := v.state.Plugins()
	var next []Plugin
	if priority == Head {
		next = append(append(next, plugins...), current...)
	} else {
		next = append(append(next, current...), plugins...)
	}
	v.UpdateState(v.state.Reconfigure(next))

	return func() {
		if v.destroyed {
			return
		}
		drop := make(map[*PluginKey]bool, len(plugins))
		for _, p := range plugins {
			drop[p.Key()] = true
		}
		var kept []Plugin
		for _, p := range v.state.plugins {
			if !drop[p.Key()] {
				kept = append(kept, p)
			}
		}
		v.UpdateState(v.state.Reconfigure(kept))
	}
}

// HandleKey routes a key event to plugin key handlers in priority order
// and then to the default keymap. It reports whether the key was consumed.
func (v *View) HandleKey(ev key.Event) bool {
	if v.destroyed {
		return false
	}
	for _, p := range v.state.plugins {
		if h, ok := p.(KeyHandler); ok && h.HandleKey(v, ev) {
			return true
		}
	}
	return v.defaultKey(ev)
}

// Click places the caret at pos as a pointer interaction.
func (v *View) Click(pos int) error {
	tr := v.state.Tr()
	tr.SetSelection(Caret(pos)).SetMeta(MetaPointer, true)
	return v.Dispatch(tr)
}

// Paste replaces the selection with text as a single transaction tagged
// with MetaUIEvent, so plugins treat it as a UI action rather than typing.
func (v *View) Paste(text string) error {
	if v.destroyed || !v.editable {
		return nil
	}
	nodes := FromText(text).nodes
	sel := v.state.selection
	tr := v.state.Tr()
	if err := tr.Replace(sel.From(), sel.To(), nodes...); err != nil {
		return err
	}
	tr.SetSelection(Caret(sel.From() + nodesSize(nodes))).SetMeta(MetaUIEvent, "paste")
	return v.Dispatch(tr)
}

// ClickAt places the caret at the screen cell (x, y).
func (v *View) ClickAt(x, y int) error {
	l := v.Layout()
	row := y - v.bounds.Top + v.scrollTop
	col := x - v.bounds.Left
	return v.Click(l.PosAt(row, col))
}

// BeginComposition starts an IME composition at the selection, replacing
// any selected content.
func (v *View) BeginComposition() error {
	if v.composing || !v.editable {
		return nil
	}
	sel := v.state.selection
	v.composing = true
	v.compFrom = sel.From()
	v.compLen = 0
	if sel.Empty() {
		return nil
	}
	tr := v.state.Tr()
	if err := tr.Delete(sel.From(), sel.To()); err != nil {
		return err
	}
	tr.SetSelection(Caret(sel.From()))
	return v.Dispatch(tr)
}

// UpdateComposition replaces the composed text.
func (v *View) UpdateComposition(text string) error {
	if !v.composing {
		return nil
	}
	tr := v.state.Tr()
	if err := tr.Replace(v.compFrom, v.compFrom+v.compLen, FromText(text).nodes...); err != nil {
		return err
	}
	v.compLen = FromText(text).Size()
	tr.SetSelection(Caret(v.compFrom + v.compLen))
	return v.Dispatch(tr)
}

// EndComposition commits the composition.
func (v *View) EndComposition() error {
	if !v.composing {
		return nil
	}
	v.composing = false
	tr := v.state.Tr()
	tr.SetMeta(MetaCompositionEnd, true)
	return v.Dispatch(tr)
}

// Scroll moves the viewport by delta rows.
func (v *View) Scroll(delta int) {
	rows := v.Layout().Rows()
	v.scrollTop = max(0, min(v.scrollTop+delta, rows-1))
	v.notify()
}

// ScrollTop returns the first visible row.
func (v *View) ScrollTop() int {
	return v.scrollTop
}

// SetBounds moves or resizes the view.
func (v *View) SetBounds(r geometry.Rect) {
	v.bounds = r
	v.ensureCaretVisible()
	v.notify()
}

// BoundingRect returns the view's screen rectangle.
func (v *View) BoundingRect() geometry.Rect {
	return v.bounds
}

// Layout returns the layout of the current document.
func (v *View) Layout() *Layout {
	w := v.bounds.Width()
	if v.layout == nil || v.layoutDoc != v.state.doc || v.layoutW != w {
		v.layout = NewLayout(v.state.doc, w, v.tabWidth)
		v.layoutDoc = v.state.doc
		v.layoutW = w
	}
	return v.layout
}

// DocSize returns the size of the current document.
func (v *View) DocSize() int {
	return v.state.doc.Size()
}

// CoordsAtPos returns the screen rectangle of a caret at pos. The result
// has zero width and a height of one row. side < 0 binds to the content
// before pos, which matters at soft wrap points.
func (v *View) CoordsAtPos(pos, side int) geometry.Rect {
	row, col := v.Layout().Cell(pos, side)
	top := v.bounds.Top + row - v.scrollTop
	left := v.bounds.Left + col
	return geometry.Rect{Top: top, Left: left, Bottom: top + 1, Right: left}
}

// ElementByAttr returns an element tracking the first decoration whose
// attribute name equals value, or nil when there is none. The element
// re-reads the decoration on every measurement.
func (v *View) ElementByAttr(name, value string) geometry.Element {
	if _, ok := v.findDecoration(name, value); !ok {
		return nil
	}
	return geometry.NewVirtualElement(v, func() geometry.Rect {
		d, ok := v.findDecoration(name, value)
		if !ok {
			return geometry.Rect{}
		}
		return geometry.RectAt(v, d.From, d.To)
	})
}

func (v *View) findDecoration(name, value string) (Decoration, bool) {
	for _, d := range v.state.Decorations() {
		if d.Attrs[name] == value {
			return d, true
		}
	}
	return Decoration{}, false
}

// OnChange registers fn to be called after the view changes. It returns a
// function that removes the listener.
func (v *View) OnChange(fn func(*View)) (remove func()) {
	id := v.listenerSeq
	v.listenerSeq++
	v.listeners[id] = fn
	return func() { delete(v.listeners, id) }
}

func (v *View) notify() {
	for _, fn := range v.listeners {
		fn(v)
	}
}

// Destroy destroys all plugin views. The view cannot be used afterwards.
func (v *View) Destroy() {
	if v.destroyed {
		return
	}
	v.destroyed = true
	v.queue = nil
	for _, pv := range v.pluginViews {
		pv.view.Destroy()
	}
	v.pluginViews = nil
	clear(v.listeners)
}

func (v *View) ensureCaretVisible() {
	height := v.bounds.Height()
	if height <= 0 {
		return
	}
	row, _ := v.Layout().Cell(v.state.selection.Head, 1)
	if row < v.scrollTop {
		v.scrollTop = row
	}
	if row >= v.scrollTop+height {
		v.scrollTop = row - height + 1
	}
}
