package popover

// Phase is the lifecycle phase of a popover.
type Phase uint8

const (
	// Closed means no activation is being shown.
	Closed Phase = iota

	// Positioning means the popover is logically open but has not been
	// placed yet. It must not be drawn in this phase.
	Positioning

	// Open means the popover is placed and drawn.
	Open
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case Closed:
		return "closed"
	case Positioning:
		return "positioning"
	case Open:
		return "open"
	default:
		return "unknown"
	}
}
