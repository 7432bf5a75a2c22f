package table

import "github.com/dshills/quill/internal/geometry"

// Map is a snapshot of the slot layout of a table. Every slot holds the id
// of the cell covering it; a cell with colspan or rowspan covers a
// rectangle of slots.
type Map struct {
	Width  int
	Height int

	slots []CellID
	rects map[CellID]geometry.Rect
	order []CellID
}

func newMap(grid [][]CellID) *Map {
	m := &Map{rects: make(map[CellID]geometry.Rect)}
	m.Height = len(grid)
	if m.Height > 0 {
		m.Width = len(grid[0])
	}
	m.slots = make([]CellID, 0, m.Width*m.Height)
	for row, cols := range grid {
		for col, id := range cols {
			m.slots = append(m.slots, id)
			r, seen := m.rects[id]
			if !seen {
				m.order = append(m.order, id)
				m.rects[id] = geometry.Rect{Top: row, Left: col, Bottom: row + 1, Right: col + 1}
				continue
			}
			m.rects[id] = r.Bounds(geometry.Rect{Top: row, Left: col, Bottom: row + 1, Right: col + 1})
		}
	}
	return m
}

// At returns the cell covering the slot at row, col.
func (m *Map) At(row, col int) (CellID, bool) {
	if row < 0 || row >= m.Height || col < 0 || col >= m.Width {
		return 0, false
	}
	return m.slots[row*m.Width+col], true
}

// FindCell returns the slot rectangle of a cell.
func (m *Map) FindCell(id CellID) (geometry.Rect, bool) {
	r, ok := m.rects[id]
	return r, ok
}

// Cells returns every cell in reading order of their top-left slot.
func (m *Map) Cells() []CellID {
	return append([]CellID(nil), m.order...)
}

// CellsInRect returns the cells covering any slot of r, in reading order
// of the slots.
func (m *Map) CellsInRect(r geometry.Rect) []CellID {
	seen := make(map[CellID]bool)
	var out []CellID
	for row := max(r.Top, 0); row < min(r.Bottom, m.Height); row++ {
		for col := max(r.Left, 0); col < min(r.Right, m.Width); col++ {
			id := m.slots[row*m.Width+col]
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

// Expand grows r until no cell crosses its boundary.
func (m *Map) Expand(r geometry.Rect) geometry.Rect {
	for {
		next := r
		for _, id := range m.CellsInRect(r) {
			next = next.Bounds(m.rects[id])
		}
		if next == r {
			return r
		}
		r = next
	}
}
