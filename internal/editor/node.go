package editor

import "unicode/utf8"

// NodeKind identifies the kind of an inline node.
type NodeKind uint8

const (
	// NodeText is a run of plain text. Each rune occupies one position.
	NodeText NodeKind = iota

	// NodeAtom is an inline leaf (e.g. a mention chip). It occupies one position.
	NodeAtom

	// NodeBreak is a hard line break between blocks. It occupies one position.
	NodeBreak
)

// String returns the string representation of the node kind.
func (k NodeKind) String() string {
	switch k {
	case NodeText:
		return "text"
	case NodeAtom:
		return "atom"
	case NodeBreak:
		return "break"
	default:
		return "unknown"
	}
}

// Node is an immutable inline document node.
type Node struct {
	Kind NodeKind

	// Text holds the content of text nodes and the display label of atoms.
	Text string

	// Attrs carries arbitrary atom attributes (e.g. a user id or link).
	Attrs map[string]string
}

// Text creates a text node.
func Text(s string) Node {
	return Node{Kind: NodeText, Text: s}
}

// Atom creates an inline atom displayed as label.
func Atom(label string, attrs map[string]string) Node {
	return Node{Kind: NodeAtom, Text: label, Attrs: attrs}
}

// Break creates a hard line break.
func Break() Node {
	return Node{Kind: NodeBreak}
}

// IsText returns true for text nodes.
func (n Node) IsText() bool {
	return n.Kind == NodeText
}

// Size returns the number of positions the node occupies.
func (n Node) Size() int {
	if n.Kind == NodeText {
		return utf8.RuneCountInString(n.Text)
	}
	return 1
}

// slice returns the part of a text node between rune offsets from and to.
// Non-text nodes are returned unchanged.
func (n Node) slice(from, to int) Node {
	if n.Kind != NodeText {
		return n
	}
	runes := []rune(n.Text)
	return Text(string(runes[from:to]))
}

func nodesSize(nodes []Node) int {
	size := 0
	for _, n := range nodes {
		size += n.Size()
	}
	return size
}
