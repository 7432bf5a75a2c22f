package editor

// ResolvedPos is a document position with access to its surrounding nodes.
type ResolvedPos struct {
	Pos int
	doc *Doc
}

// Doc returns the document the position was resolved in.
func (r ResolvedPos) Doc() *Doc {
	return r.doc
}

// NodeBefore returns the node directly before the position. A text node is
// truncated at the position, so its Text ends exactly at Pos. The lookup never
// crosses a node boundary: at the start of a text run the node before is the
// preceding atom or break, if any.
func (r ResolvedPos) NodeBefore() (Node, bool) {
	if r.doc == nil || r.Pos == 0 {
		return Node{}, false
	}
	start := 0
	for _, n := range r.doc.nodes {
		end := start + n.Size()
		if r.Pos > start && r.Pos <= end {
			return n.slice(0, r.Pos-start), true
		}
		start = end
	}
	return Node{}, false
}

// NodeAfter returns the node directly after the position, truncated to start
// at Pos for text nodes.
func (r ResolvedPos) NodeAfter() (Node, bool) {
	if r.doc == nil || r.Pos >= r.doc.size {
		return Node{}, false
	}
	start := 0
	for _, n := range r.doc.nodes {
		end := start + n.Size()
		if r.Pos >= start && r.Pos < end {
			return n.slice(r.Pos-start, n.Size()), true
		}
		start = end
	}
	return Node{}, false
}

// LineStart returns the position just after the preceding break, or 0.
func (r ResolvedPos) LineStart() int {
	start, pos := 0, 0
	for _, n := range r.doc.nodes {
		if pos >= r.Pos {
			break
		}
		pos += n.Size()
		if n.Kind == NodeBreak && pos <= r.Pos {
			start = pos
		}
	}
	return start
}

// LineEnd returns the position of the next break, or the document size.
func (r ResolvedPos) LineEnd() int {
	pos := 0
	for _, n := range r.doc.nodes {
		if n.Kind == NodeBreak && pos >= r.Pos {
			return pos
		}
		pos += n.Size()
	}
	return r.doc.size
}
