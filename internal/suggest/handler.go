package suggest

import (
	"github.com/dshills/quill/internal/geometry"
	"github.com/dshills/quill/internal/input/key"
)

// Props describe an activation to a Handler.
type Props struct {
	Range Range
	Text  string
	Query string

	// Element is the rendered decoration of the activation, or nil when
	// decorations are disabled or not rendered.
	Element geometry.Element

	// VirtualElement measures Range on demand.
	VirtualElement *geometry.VirtualElement
}

// Anchor returns the element a popover should attach to: the rendered
// decoration when present, the virtual range element otherwise.
func (p Props) Anchor() geometry.Element {
	if p.Element != nil {
		return p.Element
	}
	return p.VirtualElement
}

// Handler receives lifecycle callbacks of one suggestion instance.
//
// OnEnd may be called more than once for the same activation (for example
// from a reset followed by view teardown) and must tolerate it.
type Handler interface {
	OnStart(props Props)
	OnUpdate(props Props)
	OnEnd()

	// OnKeydown sees key events while the instance is active. Returning
	// true prevents default editor handling.
	OnKeydown(ev key.Event) bool
}

// HandlerFuncs adapts plain functions to Handler. Nil fields are no-ops.
type HandlerFuncs struct {
	Start   func(Props)
	Update  func(Props)
	End     func()
	Keydown func(key.Event) bool
}

// OnStart implements Handler.
func (h HandlerFuncs) OnStart(p Props) {
	if h.Start != nil {
		h.Start(p)
	}
}

// OnUpdate implements Handler.
func (h HandlerFuncs) OnUpdate(p Props) {
	if h.Update != nil {
		h.Update(p)
	}
}

// OnEnd implements Handler.
func (h HandlerFuncs) OnEnd() {
	if h.End != nil {
		h.End()
	}
}

// OnKeydown implements Handler.
func (h HandlerFuncs) OnKeydown(ev key.Event) bool {
	if h.Keydown != nil {
		return h.Keydown(ev)
	}
	return false
}
