package checkbox

import (
	"slices"

	"github.com/google/uuid"
)

// Section is a nested subset of a group. A value registered in a section
// belongs to that section and to every enclosing one.
type Section struct {
	ID       string
	IDs      []string
	Disabled bool
}

// NewSection creates a section inside parent, or a top-level section when
// parent is nil. A section is disabled when it or any parent is.
func NewSection(parent *Section, disabled bool) *Section {
	id := "section-" + uuid.NewString()
	if parent == nil {
		return &Section{ID: id, IDs: []string{id}, Disabled: disabled}
	}
	return &Section{
		ID:       id,
		IDs:      append(slices.Clone(parent.IDs), id),
		Disabled: disabled || parent.Disabled,
	}
}
