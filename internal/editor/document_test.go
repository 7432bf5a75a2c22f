package editor

import (
	"errors"
	"testing"
)

func TestNewDocNormalizes(t *testing.T) {
	doc := NewDoc(Text("he"), Text(""), Text("llo"), Atom("@ann", nil), Text(" "))
	if got := len(doc.Nodes()); got != 3 {
		t.Fatalf("expected 3 nodes, got %d", got)
	}
	if doc.Size() != 7 {
		t.Errorf("expected size 7, got %d", doc.Size())
	}
	if doc.String() != "hello@ann " {
		t.Errorf("expected %q, got %q", "hello@ann ", doc.String())
	}
}

func TestFromText(t *testing.T) {
	doc := FromText("ab\ncd")
	if doc.Size() != 5 {
		t.Fatalf("expected size 5, got %d", doc.Size())
	}
	if got := doc.Nodes()[1].Kind; got != NodeBreak {
		t.Errorf("expected break, got %v", got)
	}
	if got := doc.TextBetween(1, 4); got != "b\nc" {
		t.Errorf("expected %q, got %q", "b\nc", got)
	}
}

func TestNodeBefore(t *testing.T) {
	doc := NewDoc(Text("hi "), Atom("@x", nil), Text("日本"))

	tests := []struct {
		pos  int
		ok   bool
		kind NodeKind
		text string
	}{
		{0, false, NodeText, ""},
		{2, true, NodeText, "hi"},
		{3, true, NodeText, "hi "},
		{4, true, NodeAtom, "@x"},
		{5, true, NodeText, "日"},
		{6, true, NodeText, "日本"},
	}

	for _, tt := range tests {
		n, ok := doc.Resolve(tt.pos).NodeBefore()
		if ok != tt.ok {
			t.Errorf("pos %d: expected ok=%v, got %v", tt.pos, tt.ok, ok)
			continue
		}
		if !ok {
			continue
		}
		if n.Kind != tt.kind || n.Text != tt.text {
			t.Errorf("pos %d: expected %v %q, got %v %q", tt.pos, tt.kind, tt.text, n.Kind, n.Text)
		}
	}
}

func TestLineBounds(t *testing.T) {
	doc := FromText("one\ntwo\nthree")
	r := doc.Resolve(5)
	if r.LineStart() != 4 || r.LineEnd() != 7 {
		t.Errorf("expected line [4, 7], got [%d, %d]", r.LineStart(), r.LineEnd())
	}
	r = doc.Resolve(0)
	if r.LineStart() != 0 || r.LineEnd() != 3 {
		t.Errorf("expected line [0, 3], got [%d, %d]", r.LineStart(), r.LineEnd())
	}
}

func TestReplaceErrors(t *testing.T) {
	doc := FromText("abc")
	if _, err := doc.replace(2, 9, nil); !errors.Is(err, ErrPositionOutOfRange) {
		t.Errorf("expected ErrPositionOutOfRange, got %v", err)
	}
	if _, err := doc.replace(2, 1, nil); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}
}

// ============================================================================
// Mapping
// ============================================================================

func TestStepMap(t *testing.T) {
	insert := Step{From: 3, To: 3, Slice: []Node{Text("xy")}}.Map()
	del := Step{From: 2, To: 5}.Map()

	tests := []struct {
		name  string
		m     StepMap
		pos   int
		assoc int
		want  int
	}{
		{"before insert", insert, 1, 1, 1},
		{"insert point right", insert, 3, 1, 5},
		{"insert point left", insert, 3, -1, 3},
		{"after insert", insert, 6, 1, 8},
		{"delete start", del, 2, 1, 2},
		{"inside delete", del, 4, 1, 2},
		{"delete end", del, 5, -1, 2},
		{"after delete", del, 7, 1, 4},
	}

	for _, tt := range tests {
		if got := tt.m.Map(tt.pos, tt.assoc); got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.want, got)
		}
	}
}

func TestTransactionSelectionMapping(t *testing.T) {
	s := NewState(FromText("hello"), Caret(5))
	tr := s.Tr()
	if err := tr.InsertText(0, ">> "); err != nil {
		t.Fatal(err)
	}
	if got := tr.Selection(); got != Caret(8) {
		t.Errorf("expected caret 8, got %+v", got)
	}
	if !tr.DocChanged() {
		t.Error("expected doc changed")
	}
}
