package table

import "github.com/dshills/quill/internal/geometry"

// CellSelection selects the rectangle spanned by two cells, grown to cover
// whole cells.
type CellSelection struct {
	Anchor CellID
	Head   CellID
}

// Rect returns the selected slot rectangle.
func (s CellSelection) Rect(m *Map) geometry.Rect {
	a, _ := m.FindCell(s.Anchor)
	h, _ := m.FindCell(s.Head)
	return m.Expand(a.Bounds(h))
}

// Cells returns the selected cells.
func (s CellSelection) Cells(m *Map) []CellID {
	return m.CellsInRect(s.Rect(m))
}

// IsRowSelection reports whether the selection spans every column.
func (s CellSelection) IsRowSelection(m *Map) bool {
	r := s.Rect(m)
	return r.Left == 0 && r.Right == m.Width
}

// IsColSelection reports whether the selection spans every row.
func (s CellSelection) IsColSelection(m *Map) bool {
	r := s.Rect(m)
	return r.Top == 0 && r.Bottom == m.Height
}

// SelectRow selects every cell of a row.
func SelectRow(t *Table, row int) (CellSelection, bool) {
	m := t.Map()
	return selectRect(m, geometry.Rect{Top: row, Left: 0, Bottom: row + 1, Right: m.Width})
}

// SelectColumn selects every cell of a column.
func SelectColumn(t *Table, col int) (CellSelection, bool) {
	m := t.Map()
	return selectRect(m, geometry.Rect{Top: 0, Left: col, Bottom: m.Height, Right: col + 1})
}

func selectRect(m *Map, r geometry.Rect) (CellSelection, bool) {
	cells := m.CellsInRect(r)
	if len(cells) == 0 {
		return CellSelection{}, false
	}
	return CellSelection{Anchor: cells[0], Head: cells[len(cells)-1]}, true
}

// MergeState describes what a merge toggle can do for a selection.
type MergeState struct {
	// IsMergedCell is true when the selection is a single merged cell.
	IsMergedCell bool

	// Disabled is true when the selection is a single plain cell, which
	// can be neither merged nor split.
	Disabled bool
}

// MergeStateOf returns the merge state of a selection.
func MergeStateOf(t *Table, s CellSelection) MergeState {
	ids := s.Cells(t.Map())
	if len(ids) != 1 {
		return MergeState{}
	}
	c, _ := t.Cell(ids[0])
	return MergeState{IsMergedCell: c.Merged(), Disabled: !c.Merged()}
}
