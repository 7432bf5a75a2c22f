package editor

// Decoration styles the inline range [From, To) and carries attributes the
// renderer can use for lookup (e.g. "data-suggest-id").
type Decoration struct {
	From  int
	To    int
	Attrs map[string]string
}

// Covers reports whether pos is inside the decoration.
func (d Decoration) Covers(pos int) bool {
	return pos >= d.From && pos < d.To
}
