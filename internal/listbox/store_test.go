package listbox

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/quill/internal/geometry"
	"github.com/dshills/quill/internal/input/key"
)

func fruits() []Item {
	return []Item{
		{Value: "apple", Label: "Apple", Group: "Fruits"},
		{Value: "banana", Label: "Banana", Group: "Fruits"},
		{Value: "carrot", Label: "Carrot", Group: "Vegetables", Disabled: true},
		{Value: "leek", Label: "Leek", Group: "Vegetables"},
	}
}

func newStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s := New(opts...)
	if err := s.SetItems(fruits()); err != nil {
		t.Fatalf("SetItems() error = %v", err)
	}
	return s
}

var (
	down  = key.NewSpecialEvent(key.KeyDown, key.ModNone)
	up    = key.NewSpecialEvent(key.KeyUp, key.ModNone)
	enter = key.NewSpecialEvent(key.KeyEnter, key.ModNone)
)

func TestKeydownNavigation(t *testing.T) {
	s := newStore(t)

	steps := []struct {
		ev   key.Event
		want string
	}{
		{down, "apple"},
		{down, "banana"},
		{down, "leek"}, // carrot is disabled
		{down, "apple"},
		{up, "leek"},
		{key.NewSpecialEvent(key.KeyHome, key.ModNone), "apple"},
		{key.NewSpecialEvent(key.KeyEnd, key.ModNone), "leek"},
	}

	for i, st := range steps {
		if !s.Keydown(st.ev) {
			t.Errorf("step %d: expected key to be consumed", i)
		}
		if got := s.Highlighted(); got != st.want {
			t.Errorf("step %d: expected %q, got %q", i, st.want, got)
		}
	}
}

func TestUpFromNothingHighlightsLast(t *testing.T) {
	s := newStore(t)
	s.Keydown(up)
	if got := s.Highlighted(); got != "leek" {
		t.Errorf("expected %q, got %q", "leek", got)
	}
}

func TestSingleItemNavigation(t *testing.T) {
	s := New()
	if _, err := s.Register(Item{Value: "only"}); err != nil {
		t.Fatal(err)
	}
	s.Keydown(down)
	if got := s.Highlighted(); got != "only" {
		t.Errorf("expected %q, got %q", "only", got)
	}
}

func TestEnterSelects(t *testing.T) {
	var selected, changed []string
	var itemSelected string
	s := New(
		OnSelect(func(v string) { selected = append(selected, v) }),
		OnValueChange(func(v string) { changed = append(changed, v) }),
	)
	items := fruits()
	items[1].OnSelect = func(v string) { itemSelected = v }
	if err := s.SetItems(items); err != nil {
		t.Fatal(err)
	}

	if s.Keydown(enter) {
		t.Error("expected enter without highlight not to be consumed")
	}

	s.Keydown(down)
	s.Keydown(down)
	if !s.Keydown(enter) {
		t.Fatal("expected enter to select")
	}
	s.Keydown(enter)

	if len(selected) != 2 || selected[0] != "banana" {
		t.Errorf("expected two selections of banana, got %v", selected)
	}
	if len(changed) != 1 {
		t.Errorf("expected one value change, got %v", changed)
	}
	if itemSelected != "banana" {
		t.Errorf("expected item callback, got %q", itemSelected)
	}
	if s.Value() != "banana" {
		t.Errorf("expected value banana, got %q", s.Value())
	}
}

func TestDisabledItems(t *testing.T) {
	s := newStore(t)
	if s.Highlight("carrot") {
		t.Error("expected disabled item not to highlight")
	}
	if s.Select("carrot") {
		t.Error("expected disabled item not to select")
	}
	if s.Select("missing") {
		t.Error("expected unknown item not to select")
	}
}

func TestHighlightCallbacks(t *testing.T) {
	var got []string
	var rect geometry.Rect
	s := newStore(t, OnHighlight(func(v string, el geometry.Element) {
		got = append(got, v)
		rect = el.BoundingRect()
	}))
	s.SetBounds(geometry.RectFromSize(5, 2, 10, 20))

	if !s.Highlight("banana") {
		t.Fatal("expected highlight to change")
	}
	if s.Highlight("banana") {
		t.Error("expected repeated highlight to be a no-op")
	}
	if len(got) != 1 || got[0] != "banana" {
		t.Errorf("expected [banana], got %v", got)
	}
	// Row 0 is the "Fruits" label.
	want := geometry.Rect{Top: 7, Left: 2, Bottom: 8, Right: 22}
	if rect != want {
		t.Errorf("expected %+v, got %+v", want, rect)
	}
}

func TestSetItemsDropsStaleHighlight(t *testing.T) {
	var got []string
	s := newStore(t, OnHighlight(func(v string, _ geometry.Element) {
		got = append(got, v)
	}))

	s.Highlight("banana")
	if err := s.SetItems(nil); err != nil {
		t.Fatalf("SetItems() error = %v", err)
	}
	if s.Highlighted() != "" {
		t.Errorf("expected highlight to be cleared, got %q", s.Highlighted())
	}
	if err := s.SetItems(fruits()); err != nil {
		t.Fatalf("SetItems() error = %v", err)
	}
	if !s.Highlight("banana") {
		t.Error("expected highlight to change on the new list")
	}
	if len(got) != 2 {
		t.Errorf("expected 2 highlight callbacks, got %v", got)
	}

	// A highlight that survives the new items is kept.
	if err := s.SetItems(fruits()[:2]); err != nil {
		t.Fatalf("SetItems() error = %v", err)
	}
	if s.Highlighted() != "banana" {
		t.Errorf("expected banana to stay highlighted, got %q", s.Highlighted())
	}
}

func TestReset(t *testing.T) {
	s := newStore(t)
	s.SetFilter("an")
	s.Highlight("banana")
	s.Select("banana")

	s.Reset()

	if !s.Empty() || s.Highlighted() != "" || s.Value() != "" {
		t.Errorf("expected empty store, got items=%d highlighted=%q value=%q", len(s.Items()), s.Highlighted(), s.Value())
	}
	if err := s.SetItems(fruits()); err != nil {
		t.Fatalf("SetItems() error = %v", err)
	}
	if got := len(s.Items()); got != 4 {
		t.Errorf("expected the filter to be cleared, got %d items", got)
	}
}

func TestFilter(t *testing.T) {
	s := newStore(t)
	s.SetFilter("lk")
	items := s.Items()
	if len(items) != 1 || items[0].Value != "leek" {
		t.Fatalf("expected [leek], got %+v", items)
	}
	if s.GroupVisible("Fruits") {
		t.Error("expected Fruits to be hidden")
	}
	if !s.GroupVisible("Vegetables") {
		t.Error("expected Vegetables to be visible")
	}

	s.SetFilter("zzz")
	if !s.Empty() {
		t.Error("expected empty list")
	}
	if s.Select("apple") {
		t.Error("expected hidden items not to select")
	}
}

func TestRowsAndScrolling(t *testing.T) {
	s := newStore(t, WithPageSize(3))
	rows := s.Rows()
	if len(rows) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(rows))
	}
	if rows[0].Kind != RowGroupLabel || rows[3].Kind != RowGroupLabel {
		t.Error("expected group labels at rows 0 and 3")
	}

	s.Keydown(key.NewSpecialEvent(key.KeyEnd, key.ModNone))
	if s.Offset() != 3 {
		t.Errorf("expected offset 3, got %d", s.Offset())
	}
	win := s.Window()
	if len(win) != 3 || !win[2].Highlighted {
		t.Errorf("expected highlighted last row in window, got %+v", win)
	}

	s.Keydown(down)
	if s.Offset() != 0 {
		t.Errorf("expected wrap to scroll back to 0, got %d", s.Offset())
	}
}

func TestRegisterErrors(t *testing.T) {
	s := New()
	unregister, err := s.Register(Item{Value: "a"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Register(Item{Value: "a"}); !errors.Is(err, ErrDuplicateValue) {
		t.Errorf("expected ErrDuplicateValue, got %v", err)
	}
	if _, err := s.Register(Item{}); !errors.Is(err, ErrEmptyValue) {
		t.Errorf("expected ErrEmptyValue, got %v", err)
	}
	unregister()
	if !s.Empty() {
		t.Error("expected empty store after unregister")
	}
	if err := s.SetItems([]Item{{Value: "x"}, {Value: "x"}}); !errors.Is(err, ErrDuplicateValue) {
		t.Errorf("expected ErrDuplicateValue, got %v", err)
	}
}

func TestSetValueMovesHighlight(t *testing.T) {
	s := newStore(t, WithValue("apple"))
	if s.Highlighted() != "apple" {
		t.Errorf("expected initial highlight apple, got %q", s.Highlighted())
	}
	s.SetValue("leek")
	if s.Value() != "leek" || s.Highlighted() != "leek" {
		t.Errorf("expected leek, got value %q highlight %q", s.Value(), s.Highlighted())
	}
}

func TestContext(t *testing.T) {
	s := New()
	ctx := NewContext(context.Background(), s)
	if MustFromContext(ctx) != s {
		t.Error("expected store from context")
	}

	defer func() {
		r := recover()
		if err, ok := r.(error); !ok || !errors.Is(err, ErrNoProvider) {
			t.Errorf("expected ErrNoProvider panic, got %v", r)
		}
	}()
	MustFromContext(context.Background())
}
