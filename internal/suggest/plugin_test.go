package suggest

import (
	"testing"

	"github.com/dshills/quill/internal/editor"
	"github.com/dshills/quill/internal/geometry"
	"github.com/dshills/quill/internal/input/key"
)

// recorder is a Handler that records calls.
type recorder struct {
	events  []string
	last    Props
	keydown func(key.Event) bool
}

func (r *recorder) OnStart(p Props) {
	r.events = append(r.events, "start")
	r.last = p
}

func (r *recorder) OnUpdate(p Props) {
	r.events = append(r.events, "update")
	r.last = p
}

func (r *recorder) OnEnd() {
	r.events = append(r.events, "end")
}

func (r *recorder) OnKeydown(ev key.Event) bool {
	if r.keydown != nil {
		return r.keydown(ev)
	}
	return false
}

func (r *recorder) reset() {
	r.events = nil
}

func (r *recorder) count(name string) int {
	n := 0
	for _, e := range r.events {
		if e == name {
			n++
		}
	}
	return n
}

func newTestView(t *testing.T, text string, opts ...Option) (*editor.View, *Plugin, *recorder) {
	t.Helper()
	rec := &recorder{}
	p, err := New(rec, append([]Option{WithTrigger("@")}, opts...)...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc := editor.FromText(text)
	v := editor.NewView(editor.NewState(doc, editor.Caret(doc.Size())),
		editor.WithBounds(geometry.RectFromSize(0, 0, 10, 40)))
	v.Register([]editor.Plugin{p}, editor.Head)
	return v, p, rec
}

func typeText(v *editor.View, s string) {
	for _, r := range s {
		v.HandleKey(key.NewRuneEvent(r, key.ModNone))
	}
}

func mustState(t *testing.T, v *editor.View, p *Plugin) State {
	t.Helper()
	st, ok := p.StateOf(v.State())
	if !ok {
		t.Fatal("plugin not installed")
	}
	return st
}

// ============================================================================
// Transition
// ============================================================================

func TestNoopTransactionNeverActivates(t *testing.T) {
	s := editor.NewState(editor.FromText("hello @"), editor.Caret(7))
	k := editor.NewPluginKey("t")

	got := Transition(State{}, s.Tr(), CharMatcher("@"), k)
	if got.Active {
		t.Errorf("expected inactive, got %+v", got)
	}

	v, p, _ := newTestView(t, "hello @")
	if err := v.Dispatch(v.State().Tr()); err != nil {
		t.Fatal(err)
	}
	if st := mustState(t, v, p); st.Active {
		t.Errorf("expected inactive after no-op dispatch, got %+v", st)
	}
}

func TestTriggerActivation(t *testing.T) {
	v, p, rec := newTestView(t, "hello ")
	typeText(v, "@")

	st := mustState(t, v, p)
	if !st.Active {
		t.Fatal("expected active")
	}
	if st.Range != (Range{From: 6, To: 7}) || st.Text != "@" || st.Query != "" {
		t.Errorf("unexpected state %+v", st)
	}
	if st.ID == "" {
		t.Error("expected an activation id")
	}
	if len(rec.events) != 1 || rec.events[0] != "start" {
		t.Errorf("expected [start], got %v", rec.events)
	}
	if rec.last.Range != st.Range {
		t.Errorf("expected props range %+v, got %+v", st.Range, rec.last.Range)
	}
}

func TestQueryGrowthKeepsID(t *testing.T) {
	v, p, rec := newTestView(t, "hello ")
	typeText(v, "@")
	id := mustState(t, v, p).ID

	for _, r := range "bob" {
		rec.reset()
		typeText(v, string(r))
		if len(rec.events) != 1 || rec.events[0] != "update" {
			t.Errorf("typing %q: expected [update], got %v", r, rec.events)
		}
	}

	st := mustState(t, v, p)
	if st.ID != id {
		t.Errorf("expected id %q to be kept, got %q", id, st.ID)
	}
	if st.Range.To != 10 || st.Text != "@bob" || st.Query != "bob" {
		t.Errorf("unexpected state %+v", st)
	}
	if rec.last.Query != "bob" {
		t.Errorf("expected props query %q, got %q", "bob", rec.last.Query)
	}
}

func TestBackspaceShrinksQuery(t *testing.T) {
	v, p, rec := newTestView(t, "hello ")
	typeText(v, "@bob")
	rec.reset()

	v.HandleKey(key.NewSpecialEvent(key.KeyBackspace, key.ModNone))
	st := mustState(t, v, p)
	if !st.Active || st.Query != "bo" || st.Range.To != 9 {
		t.Errorf("unexpected state %+v", st)
	}
	if rec.count("update") != 1 {
		t.Errorf("expected one update, got %v", rec.events)
	}

	// Deleting the trigger ends the activation.
	for range 3 {
		v.HandleKey(key.NewSpecialEvent(key.KeyBackspace, key.ModNone))
	}
	if mustState(t, v, p).Active {
		t.Error("expected inactive after deleting the trigger")
	}
	if rec.count("end") != 1 {
		t.Errorf("expected one end, got %v", rec.events)
	}
}

func TestSpaceTerminates(t *testing.T) {
	v, p, rec := newTestView(t, "hello ")
	typeText(v, "@bob")
	rec.reset()

	typeText(v, " ")
	st := mustState(t, v, p)
	if st.Active {
		t.Errorf("expected inactive, got %+v", st)
	}
	if st.Range != (Range{}) || st.Query != "" || st.Text != "" {
		t.Errorf("expected zeroed inactive state, got %+v", st)
	}
	if len(rec.events) != 1 || rec.events[0] != "end" {
		t.Errorf("expected [end], got %v", rec.events)
	}
}

func TestCursorJumpInvalidates(t *testing.T) {
	v, p, rec := newTestView(t, "hello ")
	typeText(v, "@bob")
	rec.reset()

	// A keyboard selection change inside the match is not a continuation.
	if err := v.Dispatch(v.State().Tr().SetSelection(editor.Caret(8))); err != nil {
		t.Fatal(err)
	}
	if mustState(t, v, p).Active {
		t.Error("expected inactive after caret jump")
	}
	if len(rec.events) != 1 || rec.events[0] != "end" {
		t.Errorf("expected [end], got %v", rec.events)
	}

	// Returning to the end of the stale match does not reactivate.
	if err := v.Dispatch(v.State().Tr().SetSelection(editor.Caret(10))); err != nil {
		t.Fatal(err)
	}
	if mustState(t, v, p).Active {
		t.Error("expected stale match not to reactivate")
	}
}

func TestPointerResets(t *testing.T) {
	v, p, _ := newTestView(t, "hello ")
	typeText(v, "@bob")
	if err := v.Click(10); err != nil {
		t.Fatal(err)
	}
	if mustState(t, v, p).Active {
		t.Error("expected pointer transaction to reset")
	}
}

func TestUIEventResets(t *testing.T) {
	v, p, _ := newTestView(t, "hello ")
	typeText(v, "@bob")
	if err := v.Dispatch(v.State().Tr().SetMeta(editor.MetaUIEvent, true)); err != nil {
		t.Fatal(err)
	}
	if mustState(t, v, p).Active {
		t.Error("expected ui event to reset")
	}
}

func TestReadOnlyResets(t *testing.T) {
	v, p, rec := newTestView(t, "hello ")
	typeText(v, "@b")
	rec.reset()

	v.SetEditable(false)
	if err := v.Dispatch(v.State().Tr()); err != nil {
		t.Fatal(err)
	}
	if mustState(t, v, p).Active {
		t.Error("expected read-only view to reset")
	}
	if rec.count("end") != 1 {
		t.Errorf("expected one end, got %v", rec.events)
	}
}

func TestRangeSelectionResets(t *testing.T) {
	v, p, _ := newTestView(t, "hello ")
	typeText(v, "@bob")
	v.HandleKey(key.NewSpecialEvent(key.KeyLeft, key.ModShift))
	if mustState(t, v, p).Active {
		t.Error("expected range selection to reset")
	}
}

func TestCompositionEndFlushes(t *testing.T) {
	v, p, rec := newTestView(t, "hello ")
	typeText(v, "@")
	rec.reset()

	_ = v.BeginComposition()
	_ = v.UpdateComposition("b")
	_ = v.UpdateComposition("bo")
	st := mustState(t, v, p)
	if !st.Active || !st.Composing || st.Query != "bo" {
		t.Fatalf("unexpected state while composing %+v", st)
	}
	if rec.count("update") != 2 {
		t.Errorf("expected 2 updates while composing, got %v", rec.events)
	}

	rec.reset()
	_ = v.EndComposition()
	st = mustState(t, v, p)
	if !st.Active || st.Composing {
		t.Errorf("unexpected state after composition %+v", st)
	}
	if len(rec.events) != 1 || rec.events[0] != "update" {
		t.Errorf("expected [update] on composition end, got %v", rec.events)
	}
}

func TestRetriggerInsideQueryRestarts(t *testing.T) {
	v, p, rec := newTestView(t, "hello ")
	typeText(v, "@bo")
	rec.reset()

	typeText(v, "@")
	st := mustState(t, v, p)
	if !st.Active || st.Range.From != 9 || st.Query != "" {
		t.Errorf("unexpected state %+v", st)
	}
	if len(rec.events) != 2 || rec.events[0] != "end" || rec.events[1] != "update" {
		t.Errorf("expected [end update], got %v", rec.events)
	}
}

// ============================================================================
// Keys and decorations
// ============================================================================

func TestKeydownInterception(t *testing.T) {
	v, p, rec := newTestView(t, "hello ")
	rec.keydown = func(ev key.Event) bool {
		return ev.Key == key.KeyDown || ev.Key == key.KeyEnter
	}

	// Inactive: Enter reaches the editor.
	v.HandleKey(key.NewSpecialEvent(key.KeyEnter, key.ModNone))
	if v.State().Doc().String() != "hello \n" {
		t.Fatalf("expected enter to insert a break, got %q", v.State().Doc().String())
	}

	typeText(v, "@")
	before := v.State()
	if !v.HandleKey(key.NewSpecialEvent(key.KeyEnter, key.ModNone)) {
		t.Error("expected enter to be handled")
	}
	if v.State() != before {
		t.Error("expected handled key to skip default handling")
	}
	if !mustState(t, v, p).Active {
		t.Error("expected to remain active")
	}
}

func TestDecoration(t *testing.T) {
	v, p, rec := newTestView(t, "hello ", WithDecoration(map[string]string{"class": "mention"}))
	if decos := v.State().Decorations(); len(decos) != 0 {
		t.Fatalf("expected no decorations while inactive, got %v", decos)
	}

	typeText(v, "@a")
	st := mustState(t, v, p)
	decos := v.State().Decorations()
	if len(decos) != 1 {
		t.Fatalf("expected 1 decoration, got %d", len(decos))
	}
	d := decos[0]
	if d.From != 6 || d.To != 8 || d.Attrs[AttrSuggestID] != st.ID || d.Attrs["class"] != "mention" {
		t.Errorf("unexpected decoration %+v", d)
	}
	if rec.last.Element == nil {
		t.Fatal("expected props element for decorated activation")
	}
	want := geometry.Rect{Top: 0, Left: 6, Bottom: 1, Right: 8}
	if got := rec.last.Anchor().BoundingRect(); got != want {
		t.Errorf("expected anchor %+v, got %+v", want, got)
	}
}

func TestVirtualElementTracksView(t *testing.T) {
	v, _, rec := newTestView(t, "hello ")
	typeText(v, "@")
	if rec.last.Element != nil {
		t.Error("expected no element without decorations")
	}
	ve := rec.last.VirtualElement
	want := geometry.Rect{Top: 0, Left: 6, Bottom: 1, Right: 7}
	if got := ve.BoundingRect(); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	v.SetBounds(geometry.RectFromSize(3, 2, 10, 40))
	want = geometry.Rect{Top: 3, Left: 8, Bottom: 4, Right: 9}
	if got := ve.BoundingRect(); got != want {
		t.Errorf("expected recomputed %+v, got %+v", want, got)
	}
}

// ============================================================================
// Lifecycle
// ============================================================================

func TestDisableIsIdempotent(t *testing.T) {
	v, p, rec := newTestView(t, "hello ")
	typeText(v, "@bob")
	rec.reset()

	for i := range 2 {
		if err := p.Disable(v); err != nil {
			t.Fatalf("disable %d: unexpected error: %v", i, err)
		}
		if mustState(t, v, p).Active {
			t.Errorf("disable %d: expected inactive", i)
		}
	}
	if rec.count("end") != 1 {
		t.Errorf("expected one end, got %v", rec.events)
	}

	v.Destroy()
	v.Destroy()
	if rec.count("end") != 2 {
		t.Errorf("expected teardown end, got %v", rec.events)
	}
}

func TestUnregisterEnds(t *testing.T) {
	rec := &recorder{}
	p, err := New(rec, WithTrigger("@"))
	if err != nil {
		t.Fatal(err)
	}
	v := editor.NewView(editor.NewState(editor.FromText(""), editor.Caret(0)))
	unregister := v.Register([]editor.Plugin{p}, editor.Head)
	typeText(v, "@")
	unregister()
	if rec.count("end") != 1 {
		t.Errorf("expected end on unregister, got %v", rec.events)
	}
	if _, ok := p.StateOf(v.State()); ok {
		t.Error("expected plugin to be removed")
	}
}
