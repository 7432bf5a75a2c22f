package editor

// Selection is a text selection. Anchor is where the selection started and
// Head is where the caret is. When Anchor == Head the selection is a caret.
type Selection struct {
	Anchor int
	Head   int
}

// Caret creates an empty selection at pos.
func Caret(pos int) Selection {
	return Selection{Anchor: pos, Head: pos}
}

// Span creates a selection from anchor to head.
func Span(anchor, head int) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// Empty returns true if the selection is a caret.
func (s Selection) Empty() bool {
	return s.Anchor == s.Head
}

// From returns the lower bound of the selection.
func (s Selection) From() int {
	return min(s.Anchor, s.Head)
}

// To returns the upper bound of the selection.
func (s Selection) To() int {
	return max(s.Anchor, s.Head)
}

// Map maps the selection through a mapping.
func (s Selection) Map(m *Mapping) Selection {
	return Selection{Anchor: m.Map(s.Anchor, 1), Head: m.Map(s.Head, 1)}
}

// clamp keeps the selection inside a document.
func (s Selection) clamp(doc *Doc) Selection {
	return Selection{
		Anchor: max(0, min(s.Anchor, doc.Size())),
		Head:   max(0, min(s.Head, doc.Size())),
	}
}
