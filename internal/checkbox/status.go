package checkbox

// Status is the aggregate checked state of a group or section.
type Status uint8

const (
	// Unchecked means no value in scope is selected.
	Unchecked Status = iota

	// Checked means every value in scope is selected.
	Checked

	// Indeterminate means some but not all values are selected.
	Indeterminate
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case Checked:
		return "checked"
	case Indeterminate:
		return "indeterminate"
	default:
		return "unchecked"
	}
}
