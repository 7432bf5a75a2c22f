package term

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/quill/internal/editor"
	"github.com/dshills/quill/internal/geometry"
	"github.com/dshills/quill/internal/listbox"
	"github.com/dshills/quill/internal/popover"
)

// Empty-state messages of a popover without items.
const (
	MsgLoading = "Data is loading"
	MsgFailed  = "Failed to load data"
	MsgNoData  = "No data available"
	MsgNoQuery = "Enter keywords to search"
)

const minPopWidth = 12

// EmptyMessage returns the text shown by an open popover whose list is
// empty.
func EmptyMessage(p *popover.Popover) string {
	switch {
	case p.Loading():
		return MsgLoading
	case p.Err() != nil:
		return MsgFailed
	case p.Query() != "":
		return MsgNoData
	default:
		return MsgNoQuery
	}
}

// DrawView draws the visible part of v inside its bounding rectangle and
// places the terminal cursor at the caret.
func (s *Screen) DrawView(v *editor.View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.styles
	b := v.BoundingRect()
	s.fill(b, st.Text)

	state := v.State()
	sel := state.Selection()
	decos := state.Decorations()
	top := v.ScrollTop()

	for _, g := range v.Layout().Glyphs() {
		row := g.Row - top
		if row < 0 || row >= b.Height() || g.Kind == editor.NodeBreak {
			continue
		}
		x, y := b.Left+g.Col, b.Top+row
		if x >= b.Right {
			continue
		}

		style := st.Text
		if covered(decos, g.Pos) {
			style = st.Suggest
		}
		if g.Kind == editor.NodeAtom {
			style = st.Atom
		}
		if g.Pos >= sel.From() && g.Pos < sel.To() {
			style = st.Selection
		}

		switch g.Kind {
		case editor.NodeText:
			if g.Rune == '\t' {
				s.fill(geometry.RectFromSize(y, x, 1, min(g.Width, b.Right-x)), style)
				continue
			}
			s.screen.SetContent(x, y, g.Rune, nil, style)
		case editor.NodeAtom:
			s.drawString(x, y, b.Right-x, g.Text, style)
		}
	}

	caret := v.CoordsAtPos(sel.Head, 1)
	if caret.Top >= b.Top && caret.Top < b.Bottom && caret.Left < b.Right {
		s.screen.ShowCursor(caret.Left, caret.Top)
	} else {
		s.screen.HideCursor()
	}
}

func covered(decos []editor.Decoration, pos int) bool {
	for _, d := range decos {
		if d.Covers(pos) {
			return true
		}
	}
	return false
}

// DrawPopover lays out and draws p within boundary. Nothing is drawn while
// p is closed or while its reference is hidden; ok reports whether p was
// drawn.
func (s *Screen) DrawPopover(p *popover.Popover, boundary geometry.Rect) (pl popover.Placement, ok bool) {
	list := p.List()
	rows := list.Window()

	var msg string
	content := geometry.Size{Width: minPopWidth, Height: max(1, len(rows))}
	if len(rows) == 0 {
		msg = EmptyMessage(p)
		content.Width = max(content.Width, runewidth.StringWidth(msg)+2)
	}
	for _, row := range rows {
		content.Width = max(content.Width, rowWidth(row))
	}

	pl, ok = p.Layout(content, boundary)
	if !ok {
		return popover.Placement{}, false
	}
	list.SetBounds(pl.Rect)
	if pl.ReferenceHidden {
		return pl, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.styles
	r := pl.Rect
	s.fill(r, st.Popover)

	if msg != "" {
		style := st.Empty
		if msg == MsgFailed {
			style = st.Error
		}
		s.drawString(r.Left+1, r.Top, r.Width()-1, msg, style)
		return pl, true
	}

	for i, row := range rows {
		if i >= r.Height() {
			break
		}
		y := r.Top + i
		if row.Kind == listbox.RowGroupLabel {
			s.drawString(r.Left, y, r.Width(), row.Text, st.Group)
			continue
		}

		style, detail := st.Popover, st.Detail
		switch {
		case row.Item.Disabled:
			style, detail = st.Disabled, st.Disabled
		case row.Highlighted:
			style, detail = st.Highlight, st.Highlight
			s.fill(geometry.RectFromSize(y, r.Left, 1, r.Width()), style)
		}
		used := 1 + s.drawString(r.Left+1, y, r.Width()-1, row.Text, style)
		if row.Item.Detail != "" && used+2 < r.Width() {
			s.drawString(r.Left+used+2, y, r.Width()-used-2, row.Item.Detail, detail)
		}
	}
	return pl, true
}

// DrawStatus draws text on the last screen row.
func (s *Screen) DrawStatus(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, h := s.screen.Size()
	if h == 0 {
		return
	}
	s.fill(geometry.RectFromSize(h-1, 0, 1, w), s.styles.Status)
	s.drawString(0, h-1, w, text, s.styles.Status)
}

func rowWidth(row listbox.Row) int {
	w := runewidth.StringWidth(row.Text) + 2
	if row.Kind == listbox.RowItem && row.Item.Detail != "" {
		w += runewidth.StringWidth(row.Item.Detail) + 2
	}
	return w
}

// drawString draws text from x on row y using at most maxWidth cells and
// returns the cells used. Callers hold the lock.
func (s *Screen) drawString(x, y, maxWidth int, text string, style tcell.Style) int {
	used := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if used+w > maxWidth {
			break
		}
		s.screen.SetContent(x+used, y, r, nil, style)
		used += w
	}
	return used
}
