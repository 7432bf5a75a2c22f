package editor

import (
	"github.com/mattn/go-runewidth"
)

// Glyph is one laid-out unit of the document: a rune, an atom label or a
// line break.
type Glyph struct {
	// Pos is the document position the glyph starts at.
	Pos int

	// Row and Col are the glyph's cell in document space (before scrolling).
	Row int
	Col int

	// Width is the number of cells the glyph covers.
	Width int

	Kind NodeKind

	// Rune is set for text glyphs; Text holds the label of atoms.
	Rune rune
	Text string
}

type cell struct {
	row, col int
}

// Layout maps document positions to cells with soft wrapping.
type Layout struct {
	width    int
	tabWidth int
	glyphs   []Glyph

	// left[p] is the caret cell when position p binds to the content
	// before it; right[p] when it binds to the content after it. They only
	// differ at soft wrap points.
	left  []cell
	right []cell
	rows  int
}

// NewLayout lays out doc in columns of the given width. A width < 1
// disables wrapping.
func NewLayout(doc *Doc, width, tabWidth int) *Layout {
	if tabWidth < 1 {
		tabWidth = 4
	}
	l := &Layout{
		width:    width,
		tabWidth: tabWidth,
		left:     make([]cell, doc.Size()+1),
		right:    make([]cell, doc.Size()+1),
	}

	row, col, pos := 0, 0, 0
	place := func(g Glyph) {
		before := cell{row, col}
		if g.Kind != NodeBreak && l.width > 0 && col > 0 && col+g.Width > l.width {
			row++
			col = 0
		}
		l.left[pos] = before
		l.right[pos] = cell{row, col}
		g.Pos, g.Row, g.Col = pos, row, col
		l.glyphs = append(l.glyphs, g)
		if g.Kind == NodeBreak {
			row++
			col = 0
		} else {
			col += g.Width
		}
		pos++
	}

	for _, n := range doc.nodes {
		switch n.Kind {
		case NodeText:
			for _, r := range n.Text {
				w := runewidth.RuneWidth(r)
				if r == '\t' {
					w = l.tabWidth - col%l.tabWidth
				}
				place(Glyph{Kind: NodeText, Rune: r, Width: w})
			}
		case NodeAtom:
			place(Glyph{Kind: NodeAtom, Text: n.Text, Width: max(1, runewidth.StringWidth(n.Text))})
		case NodeBreak:
			place(Glyph{Kind: NodeBreak})
		}
	}
	l.left[pos] = cell{row, col}
	l.right[pos] = cell{row, col}
	l.rows = row + 1
	return l
}

// Glyphs returns the laid-out glyphs in document order.
func (l *Layout) Glyphs() []Glyph {
	return l.glyphs
}

// Rows returns the number of visual rows.
func (l *Layout) Rows() int {
	return l.rows
}

// Cell returns the row and column of the caret at pos. side < 0 binds to
// the content before pos, otherwise to the content after it.
func (l *Layout) Cell(pos, side int) (row, col int) {
	pos = max(0, min(pos, len(l.left)-1))
	c := l.right[pos]
	if side < 0 {
		c = l.left[pos]
	}
	return c.row, c.col
}

// PosAt returns the position closest to the given cell. Columns past the
// end of a row resolve to the row end.
func (l *Layout) PosAt(row, col int) int {
	if row < 0 {
		return 0
	}
	best := -1
	for p := range l.right {
		c := l.right[p]
		if c.row > row {
			break
		}
		if c.row == row && c.col <= col {
			best = p
		}
	}
	if best >= 0 {
		// Position p on a row whose glyph is a break is the row end.
		return best
	}
	// Row has no position starting on it (past the end).
	return len(l.right) - 1
}
