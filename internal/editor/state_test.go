package editor

import (
	"errors"
	"testing"
)

// countPlugin counts transactions and records the last env.
type countPlugin struct {
	key *PluginKey
}

func newCountPlugin() *countPlugin {
	return &countPlugin{key: NewPluginKey("count")}
}

func (p *countPlugin) Key() *PluginKey { return p.key }

func (p *countPlugin) Init(*State) any { return 0 }

func (p *countPlugin) Apply(_ *Transaction, value any) any {
	return value.(int) + 1
}

func TestPluginKeysAreUnique(t *testing.T) {
	a, b := NewPluginKey("same"), NewPluginKey("same")
	if a == b || a.String() == b.String() {
		t.Error("expected distinct keys")
	}
}

func TestStateApply(t *testing.T) {
	p := newCountPlugin()
	s := NewState(FromText("ab"), Caret(2), p)

	tr := s.Tr()
	if err := tr.InsertText(2, "c"); err != nil {
		t.Fatal(err)
	}
	next, err := s.Apply(tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Doc().String() != "abc" {
		t.Errorf("expected %q, got %q", "abc", next.Doc().String())
	}
	if v, _ := next.PluginState(p.Key()); v != 1 {
		t.Errorf("expected plugin state 1, got %v", v)
	}
	if next.Selection() != Caret(3) {
		t.Errorf("expected caret 3, got %+v", next.Selection())
	}
}

func TestStateApplyStale(t *testing.T) {
	s := NewState(FromText("ab"), Caret(0))
	tr := s.Tr()
	if err := tr.InsertText(0, "x"); err != nil {
		t.Fatal(err)
	}
	other := NewState(FromText("zz"), Caret(0))
	if _, err := other.Apply(tr); !errors.Is(err, ErrStaleTransaction) {
		t.Errorf("expected ErrStaleTransaction, got %v", err)
	}
}

func TestStateApplyRebasesMetaOnly(t *testing.T) {
	s := NewState(FromText("ab"), Caret(0))
	tr := s.Tr().SetMeta("k", true)

	moved := s.Tr().SetSelection(Caret(2))
	s2, err := s.Apply(moved)
	if err != nil {
		t.Fatal(err)
	}
	s3, err := s2.Apply(tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s3.Selection() != Caret(2) {
		t.Errorf("expected selection to be kept, got %+v", s3.Selection())
	}
}

func TestReconfigureKeepsFields(t *testing.T) {
	a, b := newCountPlugin(), newCountPlugin()
	s := NewState(FromText(""), Caret(0), a)
	s, _ = s.Apply(s.Tr())
	s = s.Reconfigure([]Plugin{b, a})

	if v, _ := s.PluginState(a.Key()); v != 1 {
		t.Errorf("expected kept state 1, got %v", v)
	}
	if v, _ := s.PluginState(b.Key()); v != 0 {
		t.Errorf("expected new state 0, got %v", v)
	}
	if ps := s.Plugins(); ps[0] != Plugin(b) {
		t.Error("expected b first")
	}
}
