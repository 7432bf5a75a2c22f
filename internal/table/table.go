package table

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dshills/quill/internal/geometry"
)

// CellID identifies a cell within its table.
type CellID int

// Cell is a table cell together with the slots it covers.
type Cell struct {
	ID   CellID
	Text string
	Rect geometry.Rect
}

// Colspan returns the number of columns the cell covers.
func (c Cell) Colspan() int { return c.Rect.Width() }

// Rowspan returns the number of rows the cell covers.
func (c Cell) Rowspan() int { return c.Rect.Height() }

// Merged reports whether the cell covers more than one slot.
func (c Cell) Merged() bool { return c.Colspan() > 1 || c.Rowspan() > 1 }

// Table is a grid of cells. Merged cells occupy a rectangle of slots.
// Removing the last row or column deletes the table.
type Table struct {
	grid    [][]CellID
	text    map[CellID]string
	next    CellID
	deleted bool
	m       *Map
}

// New creates a table of empty cells.
func New(rows, cols int) (*Table, error) {
	if rows < 1 || cols < 1 {
		return nil, ErrInvalidSize
	}
	t := &Table{text: make(map[CellID]string)}
	for range rows {
		row := make([]CellID, cols)
		for c := range row {
			row[c] = t.newCell("")
		}
		t.grid = append(t.grid, row)
	}
	return t, nil
}

// FromRows creates a table from cell texts. Short rows are padded.
func FromRows(rows [][]string) (*Table, error) {
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	t, err := New(len(rows), width)
	if err != nil {
		return nil, err
	}
	for r, cols := range rows {
		for c, text := range cols {
			t.text[t.grid[r][c]] = text
		}
	}
	return t, nil
}

func (t *Table) newCell(text string) CellID {
	t.next++
	t.text[t.next] = text
	return t.next
}

func (t *Table) changed() {
	t.m = nil
	for id := range t.text {
		if !t.contains(id) {
			delete(t.text, id)
		}
	}
}

func (t *Table) contains(id CellID) bool {
	for _, row := range t.grid {
		if slices.Contains(row, id) {
			return true
		}
	}
	return false
}

// Deleted reports whether the table was removed.
func (t *Table) Deleted() bool {
	return t.deleted
}

// Map returns the slot map of the table.
func (t *Table) Map() *Map {
	if t.m == nil {
		t.m = newMap(t.grid)
	}
	return t.m
}

// Width returns the number of columns.
func (t *Table) Width() int { return t.Map().Width }

// Height returns the number of rows.
func (t *Table) Height() int { return t.Map().Height }

// Cell returns the cell with id.
func (t *Table) Cell(id CellID) (Cell, bool) {
	r, ok := t.Map().FindCell(id)
	if !ok {
		return Cell{}, false
	}
	return Cell{ID: id, Text: t.text[id], Rect: r}, true
}

// Cells returns every cell in reading order.
func (t *Table) Cells() []Cell {
	ids := t.Map().Cells()
	cells := make([]Cell, 0, len(ids))
	for _, id := range ids {
		c, _ := t.Cell(id)
		cells = append(cells, c)
	}
	return cells
}

// SetText replaces the text of a cell.
func (t *Table) SetText(id CellID, text string) error {
	if _, ok := t.text[id]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownCell, id)
	}
	t.text[id] = text
	return nil
}

// InsertRow inserts an empty row before index. Cells spanning across the
// insertion point grow instead of being split.
func (t *Table) InsertRow(index int) error {
	if t.deleted {
		return ErrDeleted
	}
	h, w := t.Height(), t.Width()
	if index < 0 || index > h {
		return fmt.Errorf("%w: row %d", ErrOutOfRange, index)
	}
	row := make([]CellID, w)
	for c := range row {
		if index > 0 && index < h && t.grid[index-1][c] == t.grid[index][c] {
			row[c] = t.grid[index][c]
			continue
		}
		row[c] = t.newCell("")
	}
	t.grid = slices.Insert(t.grid, index, row)
	t.changed()
	return nil
}

// InsertColumn inserts an empty column before index. Cells spanning across
// the insertion point grow instead of being split.
func (t *Table) InsertColumn(index int) error {
	if t.deleted {
		return ErrDeleted
	}
	w := t.Width()
	if index < 0 || index > w {
		return fmt.Errorf("%w: column %d", ErrOutOfRange, index)
	}
	for r, row := range t.grid {
		var id CellID
		if index > 0 && index < w && row[index-1] == row[index] {
			id = row[index]
		} else {
			id = t.newCell("")
		}
		t.grid[r] = slices.Insert(row, index, id)
	}
	t.changed()
	return nil
}

// RemoveRows removes rows [top, bottom). Removing every row deletes the
// table, which is reported by deleted.
func (t *Table) RemoveRows(top, bottom int) (deleted bool, err error) {
	if t.deleted {
		return false, ErrDeleted
	}
	h := t.Height()
	if top < 0 || bottom > h || top >= bottom {
		return false, fmt.Errorf("%w: rows %d-%d", ErrOutOfRange, top, bottom)
	}
	if top == 0 && bottom == h {
		t.Delete()
		return true, nil
	}
	t.grid = slices.Delete(t.grid, top, bottom)
	t.changed()
	return false, nil
}

// RemoveRow removes a single row.
func (t *Table) RemoveRow(index int) (deleted bool, err error) {
	return t.RemoveRows(index, index+1)
}

// RemoveColumns removes columns [left, right). Removing every column
// deletes the table.
func (t *Table) RemoveColumns(left, right int) (deleted bool, err error) {
	if t.deleted {
		return false, ErrDeleted
	}
	w := t.Width()
	if left < 0 || right > w || left >= right {
		return false, fmt.Errorf("%w: columns %d-%d", ErrOutOfRange, left, right)
	}
	if left == 0 && right == w {
		t.Delete()
		return true, nil
	}
	for r, row := range t.grid {
		t.grid[r] = slices.Delete(row, left, right)
	}
	t.changed()
	return false, nil
}

// RemoveColumn removes a single column.
func (t *Table) RemoveColumn(index int) (deleted bool, err error) {
	return t.RemoveColumns(index, index+1)
}

// Delete removes the table.
func (t *Table) Delete() {
	t.grid = nil
	t.deleted = true
	t.changed()
}

// MergeCells merges every cell in r, expanded to whole cells, into its
// top-left cell. Non-empty texts are joined with a space.
func (t *Table) MergeCells(r geometry.Rect) (CellID, error) {
	if t.deleted {
		return 0, ErrDeleted
	}
	m := t.Map()
	r = m.Expand(r)
	ids := m.CellsInRect(r)
	if len(ids) < 2 {
		return 0, ErrCannotMerge
	}

	target := ids[0]
	var parts []string
	for _, id := range ids {
		if s := t.text[id]; s != "" {
			parts = append(parts, s)
		}
	}
	for row := r.Top; row < r.Bottom; row++ {
		for col := r.Left; col < r.Right; col++ {
			t.grid[row][col] = target
		}
	}
	t.text[target] = strings.Join(parts, " ")
	t.changed()
	return target, nil
}

// SplitCell splits a merged cell back into single-slot cells. The original
// cell keeps its text and its top-left slot.
func (t *Table) SplitCell(id CellID) error {
	if t.deleted {
		return ErrDeleted
	}
	c, ok := t.Cell(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownCell, id)
	}
	if !c.Merged() {
		return ErrNotMerged
	}
	for row := c.Rect.Top; row < c.Rect.Bottom; row++ {
		for col := c.Rect.Left; col < c.Rect.Right; col++ {
			if row == c.Rect.Top && col == c.Rect.Left {
				continue
			}
			t.grid[row][col] = t.newCell("")
		}
	}
	t.changed()
	return nil
}
