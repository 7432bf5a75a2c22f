package table

import (
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/quill/internal/geometry"
)

// MenuType is the kind of bubble menu shown for the current selection.
type MenuType uint8

const (
	MenuNone MenuType = iota
	MenuColumn
	MenuRow
	MenuCell
)

// String returns the string representation of the menu type.
func (t MenuType) String() string {
	switch t {
	case MenuColumn:
		return "column"
	case MenuRow:
		return "row"
	case MenuCell:
		return "cell"
	default:
		return "none"
	}
}

// Area is the operation area of a table: the row and column handles drawn
// around it while it is focused or hovered. A table has at most one.
type Area struct {
	ID      string
	Table   *Table
	Element geometry.Element
}

// Selection is a cell selection inside a table.
type Selection struct {
	Table *Table
	Cells CellSelection
}

// Menu holds the state shared by the table handles and bubble menus of an
// editor.
type Menu struct {
	mu sync.Mutex

	areas map[string]Area
	sel   *Selection

	menuType    MenuType
	menuAnchor  geometry.Element
	insertCol   geometry.Element
	insertRow   geometry.Element
	handleSize  int
	pointerDown bool
	resolveOnUp bool

	onChange func()
	logger   *slog.Logger
}

// MenuOption configures a Menu.
type MenuOption func(*Menu)

// WithInsertHandleSize sets the size of the insert handles in cells.
func WithInsertHandleSize(n int) MenuOption {
	return func(m *Menu) {
		if n > 0 {
			m.handleSize = n
		}
	}
}

// OnChange sets the callback fired after any state change.
func OnChange(fn func()) MenuOption {
	return func(m *Menu) {
		m.onChange = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) MenuOption {
	return func(m *Menu) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewMenu creates a menu store.
func NewMenu(opts ...MenuOption) *Menu {
	m := &Menu{
		areas:      make(map[string]Area),
		handleSize: 1,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// update runs fn under the lock and fires OnChange afterwards.
func (m *Menu) update(fn func()) {
	m.mu.Lock()
	fn()
	onChange := m.onChange
	m.mu.Unlock()
	if onChange != nil {
		onChange()
	}
}

// Areas returns the mounted operation areas ordered by id.
func (m *Menu) Areas() []Area {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Area, 0, len(m.areas))
	for _, a := range m.areas {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Area returns the operation area with id.
func (m *Menu) Area(id string) (Area, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.areas[id]
	return a, ok
}

func (m *Menu) mount(a Area) {
	m.update(func() { m.areas[a.ID] = a })
	m.logger.Debug("table area mounted", "id", a.ID)
}

func (m *Menu) unmount(id string) {
	m.update(func() { delete(m.areas, id) })
	m.logger.Debug("table area unmounted", "id", id)
}

// Selection returns the current cell selection.
func (m *Menu) Selection() (Selection, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sel == nil {
		return Selection{}, false
	}
	return *m.sel, true
}

// MenuType returns the type of the active bubble menu.
func (m *Menu) MenuType() MenuType {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.menuType
}

// MenuAnchor returns the element the row or column menu is anchored to.
func (m *Menu) MenuAnchor() geometry.Element {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.menuAnchor
}

// InsertHandleSize returns the insert handle size.
func (m *Menu) InsertHandleSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handleSize
}

// SetInsertColumnAnchor sets the element the column insert indicator is
// drawn at.
func (m *Menu) SetInsertColumnAnchor(el geometry.Element) {
	m.update(func() { m.insertCol = el })
}

// InsertColumnAnchor returns the column insert anchor.
func (m *Menu) InsertColumnAnchor() geometry.Element {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertCol
}

// SetInsertRowAnchor sets the element the row insert indicator is drawn at.
func (m *Menu) SetInsertRowAnchor(el geometry.Element) {
	m.update(func() { m.insertRow = el })
}

// InsertRowAnchor returns the row insert anchor.
func (m *Menu) InsertRowAnchor() geometry.Element {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertRow
}

// PointerDown records that a pointer drag started. Selection changes during
// the drag hide the menu until PointerUp.
func (m *Menu) PointerDown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pointerDown = true
}

// PointerUp ends a drag and resolves the menu for the final selection.
func (m *Menu) PointerUp() {
	m.update(func() {
		m.pointerDown = false
		if m.resolveOnUp {
			m.resolveOnUp = false
			m.resolveLocked()
		}
	})
}

// SetSelection reports a selection change. A nil selection means the
// editor selection is not a cell selection.
func (m *Menu) SetSelection(sel *Selection) {
	m.update(func() {
		m.sel = sel
		if m.pointerDown {
			m.resolveOnUp = true
			m.menuAnchor = nil
			m.menuType = MenuNone
			return
		}
		m.resolveLocked()
	})
}

func (m *Menu) resolveLocked() {
	if m.sel == nil {
		m.menuAnchor = nil
		m.menuType = MenuNone
		return
	}
	if m.menuAnchor == nil {
		m.menuType = MenuCell
	}
}

// SelectColumn selects a column of the table in area id. With an anchor
// the column menu opens at it.
func (m *Menu) SelectColumn(id string, col int, anchor geometry.Element) bool {
	return m.selectLine(id, anchor, MenuColumn, func(t *Table) (CellSelection, bool) {
		return SelectColumn(t, col)
	})
}

// SelectRow selects a row of the table in area id. With an anchor the row
// menu opens at it.
func (m *Menu) SelectRow(id string, row int, anchor geometry.Element) bool {
	return m.selectLine(id, anchor, MenuRow, func(t *Table) (CellSelection, bool) {
		return SelectRow(t, row)
	})
}

func (m *Menu) selectLine(id string, anchor geometry.Element, kind MenuType, fn func(*Table) (CellSelection, bool)) bool {
	a, ok := m.Area(id)
	if !ok {
		return false
	}
	cs, ok := fn(a.Table)
	if !ok {
		return false
	}
	m.SetSelection(&Selection{Table: a.Table, Cells: cs})
	if anchor != nil {
		m.update(func() {
			m.menuAnchor = anchor
			m.menuType = kind
		})
	}
	return true
}

// InsertColumn inserts a column into the table of area id.
func (m *Menu) InsertColumn(id string, col int) bool {
	return m.edit(id, func(t *Table) (bool, error) { return false, t.InsertColumn(col) })
}

// InsertRow inserts a row into the table of area id.
func (m *Menu) InsertRow(id string, row int) bool {
	return m.edit(id, func(t *Table) (bool, error) { return false, t.InsertRow(row) })
}

// RemoveColumn removes a column of the table of area id. Removing the last
// column removes the table.
func (m *Menu) RemoveColumn(id string, col int) bool {
	return m.edit(id, func(t *Table) (bool, error) { return t.RemoveColumn(col) })
}

// RemoveRow removes a row of the table of area id. Removing the last row
// removes the table.
func (m *Menu) RemoveRow(id string, row int) bool {
	return m.edit(id, func(t *Table) (bool, error) { return t.RemoveRow(row) })
}

func (m *Menu) edit(id string, fn func(*Table) (bool, error)) bool {
	a, ok := m.Area(id)
	if !ok {
		return false
	}
	return m.apply(a.Table, fn)
}

// apply runs an edit and drops the selection, which the edit invalidates.
func (m *Menu) apply(t *Table, fn func(*Table) (bool, error)) bool {
	deleted, err := fn(t)
	if err != nil {
		m.logger.Debug("table edit rejected", "error", err)
		return false
	}
	m.update(func() {
		if deleted {
			for id, a := range m.areas {
				if a.Table == t {
					delete(m.areas, id)
				}
			}
		}
	})
	m.SetSelection(nil)
	return true
}

// RemoveRowCurrent removes the selected rows. A selection covering the
// whole table removes the table; a selection covering every row but not
// every column is rejected.
func (m *Menu) RemoveRowCurrent() bool {
	sel, ok := m.Selection()
	if !ok {
		return false
	}
	tm := sel.Table.Map()
	if sel.Cells.IsRowSelection(tm) && sel.Cells.IsColSelection(tm) {
		return m.apply(sel.Table, func(t *Table) (bool, error) { t.Delete(); return true, nil })
	}
	r := sel.Cells.Rect(tm)
	if r.Top == 0 && r.Bottom == tm.Height {
		return false
	}
	return m.apply(sel.Table, func(t *Table) (bool, error) { return t.RemoveRows(r.Top, r.Bottom) })
}

// RemoveColumnCurrent removes the selected columns, following the same
// rules as RemoveRowCurrent.
func (m *Menu) RemoveColumnCurrent() bool {
	sel, ok := m.Selection()
	if !ok {
		return false
	}
	tm := sel.Table.Map()
	if sel.Cells.IsRowSelection(tm) && sel.Cells.IsColSelection(tm) {
		return m.apply(sel.Table, func(t *Table) (bool, error) { t.Delete(); return true, nil })
	}
	r := sel.Cells.Rect(tm)
	if r.Left == 0 && r.Right == tm.Width {
		return false
	}
	return m.apply(sel.Table, func(t *Table) (bool, error) { return t.RemoveColumns(r.Left, r.Right) })
}

// MergeState returns the merge state of the current selection. ok is false
// without a cell selection.
func (m *Menu) MergeState() (state MergeState, ok bool) {
	sel, ok := m.Selection()
	if !ok {
		return MergeState{}, false
	}
	return MergeStateOf(sel.Table, sel.Cells), true
}

// SetMerged merges the selected cells when pressed and splits the selected
// merged cell otherwise. The merged or split cell stays selected.
func (m *Menu) SetMerged(pressed bool) bool {
	sel, ok := m.Selection()
	if !ok {
		return false
	}
	if st := MergeStateOf(sel.Table, sel.Cells); st.Disabled {
		return false
	}

	t := sel.Table
	if pressed {
		id, err := t.MergeCells(sel.Cells.Rect(t.Map()))
		if err != nil {
			m.logger.Debug("merge rejected", "error", err)
			return false
		}
		m.SetSelection(&Selection{Table: t, Cells: CellSelection{Anchor: id, Head: id}})
		return true
	}

	ids := sel.Cells.Cells(t.Map())
	if len(ids) != 1 {
		return false
	}
	r, _ := t.Map().FindCell(ids[0])
	if err := t.SplitCell(ids[0]); err != nil {
		m.logger.Debug("split rejected", "error", err)
		return false
	}
	cells := t.Map().CellsInRect(r)
	m.SetSelection(&Selection{Table: t, Cells: CellSelection{Anchor: cells[0], Head: cells[len(cells)-1]}})
	return true
}

// Frame tracks one rendered table and mounts its operation area while the
// table is focused or hovered.
type Frame struct {
	menu    *Menu
	table   *Table
	element geometry.Element
	id      string

	focused bool
	hovered bool
	mounted bool
}

// Attach creates the frame of a rendered table.
func (m *Menu) Attach(t *Table, el geometry.Element) *Frame {
	return &Frame{menu: m, table: t, element: el, id: "table-" + uuid.NewString()}
}

// ID returns the id of the frame's operation area.
func (f *Frame) ID() string { return f.id }

// Mounted reports whether the operation area is mounted.
func (f *Frame) Mounted() bool { return f.mounted }

// SetFocused reports whether the editor selection is inside the table.
func (f *Frame) SetFocused(focused bool) {
	f.focused = focused
	f.sync()
}

// SetHovered reports whether the pointer is over the table.
func (f *Frame) SetHovered(hovered bool) {
	f.hovered = hovered
	f.sync()
}

// Destroy unmounts the operation area.
func (f *Frame) Destroy() {
	f.focused, f.hovered = false, false
	f.sync()
}

func (f *Frame) sync() {
	want := (f.focused || f.hovered) && !f.table.Deleted()
	switch {
	case want && !f.mounted:
		f.mounted = true
		f.menu.mount(Area{ID: f.id, Table: f.table, Element: f.element})
	case !want && f.mounted:
		f.mounted = false
		f.menu.unmount(f.id)
	}
}
