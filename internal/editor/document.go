package editor

import (
	"fmt"
	"strings"
)

// Doc is an immutable inline document.
//
// Positions count runes: every text rune, atom and break occupies exactly
// one position, so a document of size n has valid positions 0..n.
type Doc struct {
	nodes []Node
	size  int
}

// NewDoc creates a document from nodes. Empty text nodes are dropped and
// adjacent text nodes are merged.
func NewDoc(nodes ...Node) *Doc {
	normalized := normalize(nodes)
	return &Doc{nodes: normalized, size: nodesSize(normalized)}
}

// FromText creates a document from plain text, turning newlines into breaks.
func FromText(s string) *Doc {
	lines := strings.Split(s, "\n")
	nodes := make([]Node, 0, len(lines)*2)
	for i, line := range lines {
		if i > 0 {
			nodes = append(nodes, Break())
		}
		nodes = append(nodes, Text(line))
	}
	return NewDoc(nodes...)
}

func normalize(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Kind == NodeText {
			if n.Text == "" {
				continue
			}
			if last := len(out) - 1; last >= 0 && out[last].Kind == NodeText {
				out[last] = Text(out[last].Text + n.Text)
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

// Size returns the number of positions in the document.
func (d *Doc) Size() int {
	return d.size
}

// Nodes returns a copy of the document's nodes.
func (d *Doc) Nodes() []Node {
	out := make([]Node, len(d.nodes))
	copy(out, d.nodes)
	return out
}

// String returns the document text. Atoms render as their label and
// breaks as newlines.
func (d *Doc) String() string {
	var sb strings.Builder
	for _, n := range d.nodes {
		switch n.Kind {
		case NodeBreak:
			sb.WriteByte('\n')
		default:
			sb.WriteString(n.Text)
		}
	}
	return sb.String()
}

// TextBetween returns the text between two positions. Atoms contribute
// their label and breaks a newline.
func (d *Doc) TextBetween(from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > d.size {
		to = d.size
	}
	if from >= to {
		return ""
	}
	return NewDoc(d.cut(from, to)...).String()
}

// Resolve returns a resolved position. pos is clamped into [0, Size].
func (d *Doc) Resolve(pos int) ResolvedPos {
	if pos < 0 {
		pos = 0
	}
	if pos > d.size {
		pos = d.size
	}
	return ResolvedPos{Pos: pos, doc: d}
}

// cut returns the nodes covering [from, to).
func (d *Doc) cut(from, to int) []Node {
	var out []Node
	start := 0
	for _, n := range d.nodes {
		end := start + n.Size()
		if end > from && start < to {
			lo := max(from, start) - start
			hi := min(to, end) - start
			out = append(out, n.slice(lo, hi))
		}
		if end >= to {
			break
		}
		start = end
	}
	return out
}

// replace returns a new document with [from, to) replaced by nodes.
func (d *Doc) replace(from, to int, nodes []Node) (*Doc, error) {
	if from < 0 || to > d.size {
		return nil, fmt.Errorf("replace [%d, %d) in document of size %d: %w", from, to, d.size, ErrPositionOutOfRange)
	}
	if to < from {
		return nil, fmt.Errorf("replace [%d, %d): %w", from, to, ErrRangeInvalid)
	}

	merged := make([]Node, 0, len(d.nodes)+len(nodes)+1)
	merged = append(merged, d.cut(0, from)...)
	merged = append(merged, nodes...)
	merged = append(merged, d.cut(to, d.size)...)
	return NewDoc(merged...), nil
}

// Eq reports whether two documents have identical content.
func (d *Doc) Eq(other *Doc) bool {
	if d == other {
		return true
	}
	if d.size != other.size || len(d.nodes) != len(other.nodes) {
		return false
	}
	for i := range d.nodes {
		a, b := d.nodes[i], other.nodes[i]
		if a.Kind != b.Kind || a.Text != b.Text || len(a.Attrs) != len(b.Attrs) {
			return false
		}
		for k, v := range a.Attrs {
			if b.Attrs[k] != v {
				return false
			}
		}
	}
	return true
}
