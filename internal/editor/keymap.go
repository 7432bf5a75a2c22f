package editor

import (
	"github.com/dshills/quill/internal/input/key"
)

// defaultKey implements the built-in key bindings that run after plugin
// key handlers.
func (v *View) defaultKey(ev key.Event) bool {
	sel := v.state.selection
	extend := ev.Modifiers.Has(key.ModShift)

	switch {
	case ev.IsChar() && !ev.IsModified():
		return v.replaceSelection(Text(string(ev.Rune)))
	case ev.Key == key.KeyTab && ev.Modifiers == key.ModNone:
		return v.replaceSelection(Text("\t"))
	case ev.Key == key.KeyEnter && ev.Modifiers == key.ModNone:
		return v.replaceSelection(Break())
	case ev.Key == key.KeyBackspace:
		if !sel.Empty() {
			return v.replaceSelection()
		}
		if sel.Head == 0 {
			return false
		}
		return v.deleteRange(sel.Head-1, sel.Head)
	case ev.Key == key.KeyDelete:
		if !sel.Empty() {
			return v.replaceSelection()
		}
		if sel.Head >= v.state.doc.Size() {
			return false
		}
		return v.deleteRange(sel.Head, sel.Head+1)
	case ev.Key == key.KeyLeft:
		if !sel.Empty() && !extend {
			return v.moveTo(sel.From(), false)
		}
		return v.moveTo(sel.Head-1, extend)
	case ev.Key == key.KeyRight:
		if !sel.Empty() && !extend {
			return v.moveTo(sel.To(), false)
		}
		return v.moveTo(sel.Head+1, extend)
	case ev.Key == key.KeyUp, ev.Key == key.KeyDown:
		l := v.Layout()
		row, col := l.Cell(sel.Head, 1)
		if ev.Key == key.KeyUp {
			if row == 0 {
				return v.moveTo(0, extend)
			}
			row--
		} else {
			if row >= l.Rows()-1 {
				return v.moveTo(v.state.doc.Size(), extend)
			}
			row++
		}
		return v.moveTo(l.PosAt(row, col), extend)
	case ev.Key == key.KeyHome:
		return v.moveTo(v.state.doc.Resolve(sel.Head).LineStart(), extend)
	case ev.Key == key.KeyEnd:
		return v.moveTo(v.state.doc.Resolve(sel.Head).LineEnd(), extend)
	}
	return false
}

func (v *View) replaceSelection(nodes ...Node) bool {
	if !v.editable {
		return false
	}
	sel := v.state.selection
	tr := v.state.Tr()
	if err := tr.Replace(sel.From(), sel.To(), nodes...); err != nil {
		v.logger.Warn("replace selection", "error", err)
		return false
	}
	tr.SetSelection(Caret(sel.From() + nodesSize(nodes)))
	return v.Dispatch(tr) == nil
}

func (v *View) deleteRange(from, to int) bool {
	if !v.editable {
		return false
	}
	tr := v.state.Tr()
	if err := tr.Delete(from, to); err != nil {
		v.logger.Warn("delete", "error", err)
		return false
	}
	tr.SetSelection(Caret(from))
	return v.Dispatch(tr) == nil
}

func (v *View) moveTo(pos int, extend bool) bool {
	pos = max(0, min(pos, v.state.doc.Size()))
	sel := Caret(pos)
	if extend {
		sel = Span(v.state.selection.Anchor, pos)
	}
	tr := v.state.Tr()
	tr.SetSelection(sel)
	return v.Dispatch(tr) == nil
}
