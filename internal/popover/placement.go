package popover

import "github.com/dshills/quill/internal/geometry"

// Side is the side of the reference the popover is placed on.
type Side uint8

const (
	// SideBottom places the popover below the reference.
	SideBottom Side = iota

	// SideTop places the popover above the reference.
	SideTop
)

// String returns the string representation of the side.
func (s Side) String() string {
	if s == SideTop {
		return "top"
	}
	return "bottom"
}

// PlacementOptions configure Place.
type PlacementOptions struct {
	// Offset is the gap in rows between reference and popover.
	Offset int

	// Padding keeps the popover this many cells away from the boundary.
	Padding int

	// Flip allows moving to the opposite side when the preferred side
	// has less room.
	Flip bool
}

// Placement is the result of Place.
type Placement struct {
	Rect geometry.Rect
	Side Side

	// AvailableWidth and AvailableHeight are the room on the chosen side.
	AvailableWidth  int
	AvailableHeight int

	// ReferenceHidden is true when the reference lies entirely outside
	// the clipping rectangle.
	ReferenceHidden bool
}

// Place positions a floating box of size content below the start of ref,
// flipping above it when there is more room, shifting it to stay inside
// boundary and shrinking it to the available height.
func Place(ref geometry.Rect, content geometry.Size, boundary, clip geometry.Rect, opts PlacementOptions) Placement {
	inner := geometry.Rect{
		Top:    boundary.Top + opts.Padding,
		Left:   boundary.Left + opts.Padding,
		Bottom: boundary.Bottom - opts.Padding,
		Right:  boundary.Right - opts.Padding,
	}

	below := inner.Bottom - (ref.Bottom + opts.Offset)
	above := (ref.Top - opts.Offset) - inner.Top

	side := SideBottom
	avail := below
	if opts.Flip && content.Height > below && above > below {
		side = SideTop
		avail = above
	}
	avail = max(avail, 0)

	h := max(1, min(content.Height, avail))
	w := max(1, min(content.Width, inner.Width()))

	top := ref.Bottom + opts.Offset
	if side == SideTop {
		top = ref.Top - opts.Offset - h
	}
	left := ref.Left

	// shift
	left = max(inner.Left, min(left, inner.Right-w))
	top = max(inner.Top, min(top, inner.Bottom-h))

	return Placement{
		Rect:            geometry.RectFromSize(top, left, h, w),
		Side:            side,
		AvailableWidth:  inner.Width(),
		AvailableHeight: avail,
		ReferenceHidden: !ref.Intersects(clip),
	}
}
