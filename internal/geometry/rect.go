package geometry

// Rect is a rectangle in terminal cell coordinates.
// Top/Left are inclusive, Bottom/Right are exclusive. A caret is a rect
// with Left == Right spanning one row.
type Rect struct {
	Top    int
	Left   int
	Bottom int
	Right  int
}

// RectFromSize creates a rectangle from position and size.
func RectFromSize(top, left, height, width int) Rect {
	return Rect{Top: top, Left: left, Bottom: top + height, Right: left + width}
}

// Width returns the width of the rectangle, never negative.
func (r Rect) Width() int {
	if r.Right <= r.Left {
		return 0
	}
	return r.Right - r.Left
}

// Height returns the height of the rectangle, never negative.
func (r Rect) Height() int {
	if r.Bottom <= r.Top {
		return 0
	}
	return r.Bottom - r.Top
}

// X is an alias for Left.
func (r Rect) X() int { return r.Left }

// Y is an alias for Top.
func (r Rect) Y() int { return r.Top }

// Bounds returns the smallest rectangle covering both r and other.
// Unlike an area union, degenerate rectangles (carets) still contribute
// their edges.
func (r Rect) Bounds(other Rect) Rect {
	return Rect{
		Top:    min(r.Top, other.Top),
		Left:   min(r.Left, other.Left),
		Bottom: max(r.Bottom, other.Bottom),
		Right:  max(r.Right, other.Right),
	}
}

// Intersects returns true if two rectangles overlap or touch.
// Zero-width carets count as intersecting when they lie on an edge.
func (r Rect) Intersects(other Rect) bool {
	return r.Left <= other.Right && r.Right >= other.Left &&
		r.Top < other.Bottom && r.Bottom > other.Top
}

// Translate returns the rectangle moved by dx, dy.
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{Top: r.Top + dy, Left: r.Left + dx, Bottom: r.Bottom + dy, Right: r.Right + dx}
}

// Size is a width/height pair in cells.
type Size struct {
	Width  int
	Height int
}
