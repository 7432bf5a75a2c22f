package observe

import (
	"testing"

	"github.com/dshills/quill/internal/geometry"
)

func TestNotifyMultiplexes(t *testing.T) {
	r := NewRegistry()
	var a, b []geometry.Size
	unA := r.Observe("screen", func(s geometry.Size) { a = append(a, s) })
	r.Observe("screen", func(s geometry.Size) { b = append(b, s) })

	if n := r.Notify("screen", geometry.Size{Width: 80, Height: 24}); n != 2 {
		t.Errorf("expected 2 callbacks, got %d", n)
	}
	if n := r.Notify("screen", geometry.Size{Width: 80, Height: 24}); n != 0 {
		t.Errorf("expected unchanged size to be ignored, got %d", n)
	}

	unA()
	r.Notify("screen", geometry.Size{Width: 100, Height: 30})
	if len(a) != 1 || len(b) != 2 {
		t.Errorf("expected 1 and 2 notifications, got %d and %d", len(a), len(b))
	}
}

func TestUnobserve(t *testing.T) {
	r := NewRegistry()
	un := r.Observe("x", func(geometry.Size) {})
	r.Observe("x", func(geometry.Size) {})

	r.Unobserve("x")
	if r.Observed("x") {
		t.Error("expected target to be removed")
	}
	un()
	if n := r.Notify("x", geometry.Size{Width: 1}); n != 0 {
		t.Errorf("expected no callbacks, got %d", n)
	}
	if n := r.Notify("unknown", geometry.Size{}); n != 0 {
		t.Errorf("expected no callbacks for unknown target, got %d", n)
	}
}

func TestLastUnobserveRemovesTarget(t *testing.T) {
	r := NewRegistry()
	un := r.Observe(42, func(geometry.Size) {})
	if !r.Observed(42) {
		t.Fatal("expected target to be observed")
	}
	un()
	if r.Observed(42) {
		t.Error("expected target to be removed after last callback")
	}
}
