package term

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/quill/internal/editor"
	"github.com/dshills/quill/internal/geometry"
	"github.com/dshills/quill/internal/input/key"
	"github.com/dshills/quill/internal/listbox"
	"github.com/dshills/quill/internal/popover"
	"github.com/dshills/quill/internal/suggest"
)

func newTestScreen(t *testing.T) (*Screen, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	s := New(sim)
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	sim.SetSize(80, 24)
	t.Cleanup(s.Fini)
	return s, sim
}

func textAt(sim tcell.SimulationScreen, x, y, n int) string {
	var b strings.Builder
	for i := range n {
		r, _, _, _ := sim.GetContent(x+i, y) //nolint:staticcheck // GetContent is the correct API
		b.WriteRune(r)
	}
	return b.String()
}

func styleAt(sim tcell.SimulationScreen, x, y int) tcell.Style {
	_, _, style, _ := sim.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
	return style
}

func openPopover(p *popover.Popover, query string) {
	screen := geometry.RectFromSize(0, 0, 24, 80)
	caret := geometry.Rect{Top: 2, Left: 6, Bottom: 3, Right: 6}
	p.OnStart(suggest.Props{
		Range: suggest.Range{From: 6, To: 7 + len(query)},
		Query: query,
		Text:  "@" + query,
		VirtualElement: geometry.NewVirtualElement(geometry.StaticElement(screen), func() geometry.Rect {
			return caret
		}),
	})
}

// ============================================================================
// Events
// ============================================================================

func TestConvertKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want key.Event
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, '@', tcell.ModNone), key.NewRuneEvent('@', key.ModNone)},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), key.NewSpecialEvent(key.KeyEnter, key.ModNone)},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), key.NewSpecialEvent(key.KeyEscape, key.ModNone)},
		{"backspace", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), key.NewSpecialEvent(key.KeyBackspace, key.ModNone)},
		{"shift up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModShift), key.NewSpecialEvent(key.KeyUp, key.ModShift)},
		{"backtab", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone), key.NewSpecialEvent(key.KeyTab, key.ModShift)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convertKey(tt.ev)
			if !got.Equals(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestConvertEvent(t *testing.T) {
	ev := convertEvent(tcell.NewEventResize(100, 30))
	if ev.Type != EventResize || ev.Width != 100 || ev.Height != 30 {
		t.Errorf("unexpected resize event %+v", ev)
	}

	ev = convertEvent(tcell.NewEventMouse(3, 4, tcell.Button1, tcell.ModNone))
	if ev.Type != EventMouse || ev.X != 3 || ev.Y != 4 || ev.Button != MouseLeft {
		t.Errorf("unexpected mouse event %+v", ev)
	}

	ran := false
	ev = convertEvent(tcell.NewEventInterrupt(func() { ran = true }))
	if ev.Type != EventFunc || ev.Func == nil {
		t.Fatalf("expected func event, got %+v", ev)
	}
	ev.Func()
	if !ran {
		t.Error("expected posted function to run")
	}

	if ev := convertEvent(tcell.NewEventInterrupt("other")); ev.Type != EventNone {
		t.Errorf("expected interrupts without a func to be ignored, got %v", ev.Type)
	}
}

func TestPost(t *testing.T) {
	s, _ := newTestScreen(t)

	ran := false
	if err := s.Post(func() { ran = true }); err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	for range 5 {
		ev, ok := s.PollEvent()
		if !ok {
			t.Fatal("screen closed")
		}
		if ev.Type == EventFunc {
			ev.Func()
			break
		}
	}
	if !ran {
		t.Error("expected posted function to be delivered")
	}
}

// ============================================================================
// Drawing
// ============================================================================

func TestDrawView(t *testing.T) {
	s, sim := newTestScreen(t)
	doc := editor.NewDoc(editor.Text("hi "), editor.Atom("@Ana", nil))
	v := editor.NewView(
		editor.NewState(doc, editor.Caret(doc.Size())),
		editor.WithBounds(geometry.RectFromSize(1, 2, 3, 20)),
	)

	s.DrawView(v)

	if got := textAt(sim, 2, 1, 7); got != "hi @Ana" {
		t.Errorf("expected %q, got %q", "hi @Ana", got)
	}
	if styleAt(sim, 5, 1) != s.Styles().Atom {
		t.Error("expected atom style on the atom label")
	}
	x, y, visible := sim.GetCursor()
	if !visible || x != 9 || y != 1 {
		t.Errorf("expected cursor at (9, 1), got (%d, %d) visible=%v", x, y, visible)
	}
}

func TestDrawViewSelection(t *testing.T) {
	s, sim := newTestScreen(t)
	doc := editor.FromText("abc")
	v := editor.NewView(
		editor.NewState(doc, editor.Span(0, 2)),
		editor.WithBounds(geometry.RectFromSize(0, 0, 2, 10)),
	)

	s.DrawView(v)

	if styleAt(sim, 1, 0) != s.Styles().Selection {
		t.Error("expected selected text to use the selection style")
	}
	if styleAt(sim, 2, 0) != s.Styles().Text {
		t.Error("expected unselected text to use the text style")
	}
}

func TestDrawPopoverRows(t *testing.T) {
	s, sim := newTestScreen(t)
	p := popover.New()
	openPopover(p, "")
	p.Deliver(p.Epoch(), []listbox.Item{{Value: "ann"}, {Value: "bob", Detail: "b@x"}}, nil)

	pl, ok := s.DrawPopover(p, s.BoundingRect())
	if !ok {
		t.Fatal("expected popover to be drawn")
	}
	if pl.Rect != geometry.RectFromSize(3, 6, 2, 12) {
		t.Errorf("unexpected placement %+v", pl.Rect)
	}
	if p.Phase() != popover.Open {
		t.Errorf("expected open, got %v", p.Phase())
	}
	if got := textAt(sim, 7, 3, 3); got != "ann" {
		t.Errorf("expected %q, got %q", "ann", got)
	}
	if styleAt(sim, 7, 3) != s.Styles().Highlight {
		t.Error("expected first row to be highlighted")
	}
	if got := textAt(sim, 12, 4, 3); got != "b@x" {
		t.Errorf("expected detail %q, got %q", "b@x", got)
	}
}

func TestEmptyMessages(t *testing.T) {
	blocking := popover.SearchFunc(func(ctx context.Context, _ string) ([]listbox.Item, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	tests := []struct {
		name  string
		setup func() *popover.Popover
		want  string
	}{
		{"no query", func() *popover.Popover {
			p := popover.New()
			openPopover(p, "")
			return p
		}, MsgNoQuery},
		{"loading", func() *popover.Popover {
			p := popover.New(popover.WithSearcher(blocking))
			openPopover(p, "an")
			return p
		}, MsgLoading},
		{"failed", func() *popover.Popover {
			p := popover.New()
			openPopover(p, "an")
			p.Deliver(p.Epoch(), nil, errors.New("boom"))
			return p
		}, MsgFailed},
		{"no data", func() *popover.Popover {
			p := popover.New()
			openPopover(p, "zz")
			p.Deliver(p.Epoch(), nil, nil)
			return p
		}, MsgNoData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, sim := newTestScreen(t)
			p := tt.setup()
			defer p.Close()

			if got := EmptyMessage(p); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if _, ok := s.DrawPopover(p, s.BoundingRect()); !ok {
				t.Fatal("expected popover to be drawn")
			}
			if got := textAt(sim, 7, 3, len(tt.want)); got != tt.want {
				t.Errorf("expected %q on screen, got %q", tt.want, got)
			}
		})
	}
}

func TestDrawPopoverHiddenReference(t *testing.T) {
	s, sim := newTestScreen(t)
	p := popover.New(popover.WithClip(geometry.StaticElement(geometry.RectFromSize(10, 0, 5, 80))))
	openPopover(p, "")

	pl, ok := s.DrawPopover(p, s.BoundingRect())
	if ok {
		t.Error("expected nothing drawn for a hidden reference")
	}
	if !pl.ReferenceHidden || !p.IsOpen() {
		t.Error("expected popover to stay open with a hidden reference")
	}
	if got := textAt(sim, 7, 3, 5); got != "     " {
		t.Errorf("expected blank screen, got %q", got)
	}
}

func TestDrawPopoverClosed(t *testing.T) {
	s, _ := newTestScreen(t)
	if _, ok := s.DrawPopover(popover.New(), s.BoundingRect()); ok {
		t.Error("expected closed popover not to be drawn")
	}
}

func TestDrawStatus(t *testing.T) {
	s, sim := newTestScreen(t)
	s.DrawStatus("@ mention")

	if got := textAt(sim, 0, 23, 9); got != "@ mention" {
		t.Errorf("expected %q, got %q", "@ mention", got)
	}
	if styleAt(sim, 40, 23) != s.Styles().Status {
		t.Error("expected the whole row to use the status style")
	}
}
