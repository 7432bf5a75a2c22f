package geometry

// CoordsSource resolves document positions to screen coordinates.
// side < 0 biases towards the character before pos, which avoids measuring
// a position that was just deleted or sits on a soft-wrap boundary.
type CoordsSource interface {
	DocSize() int
	CoordsAtPos(pos, side int) Rect
}

// Element is anything that can report its on-screen bounding rectangle.
type Element interface {
	BoundingRect() Rect
}

// RectAt returns the bounding rectangle of the document range [from, to].
// Both ends are clamped into [0, DocSize] so stale or reversed ranges still
// produce a well formed rectangle.
func RectAt(src CoordsSource, from, to int) Rect {
	size := src.DocSize()
	from = clamp(from, 0, size)
	to = clamp(to, 0, size)

	start := src.CoordsAtPos(from, 1)
	end := src.CoordsAtPos(to, -1)
	return start.Bounds(end)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// VirtualElement is an Element whose rectangle is computed on every call.
// The document may change between activation and the next render, so the
// result is never cached.
type VirtualElement struct {
	// Context is the element the virtual rectangle lives in (used for clipping).
	Context Element

	rect func() Rect
}

// NewVirtualElement creates a virtual element backed by fn.
func NewVirtualElement(context Element, fn func() Rect) *VirtualElement {
	return &VirtualElement{Context: context, rect: fn}
}

// RangeElement creates a virtual element tracking the document range [from, to].
func RangeElement(src CoordsSource, context Element, from, to int) *VirtualElement {
	return NewVirtualElement(context, func() Rect {
		return RectAt(src, from, to)
	})
}

// BoundingRect implements Element.
func (v *VirtualElement) BoundingRect() Rect {
	if v == nil || v.rect == nil {
		return Rect{}
	}
	return v.rect()
}

// StaticElement is an Element with a fixed rectangle.
type StaticElement Rect

// BoundingRect implements Element.
func (s StaticElement) BoundingRect() Rect {
	return Rect(s)
}
