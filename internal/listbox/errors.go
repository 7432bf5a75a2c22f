package listbox

import "errors"

// Errors for listbox operations.
var (
	// ErrNoProvider is the panic value when a listbox is required from a
	// context that does not carry one.
	ErrNoProvider = errors.New("listbox: no store in context")

	// ErrDuplicateValue indicates an item value that is already registered.
	ErrDuplicateValue = errors.New("listbox: duplicate item value")

	// ErrEmptyValue indicates an item without a value.
	ErrEmptyValue = errors.New("listbox: item value is empty")
)
