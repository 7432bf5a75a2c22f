package editor

import "errors"

// Errors returned by editor operations.
var (
	// ErrPositionOutOfRange indicates a position outside [0, doc.Size()].
	ErrPositionOutOfRange = errors.New("position out of range")

	// ErrRangeInvalid indicates an invalid range (e.g., to < from).
	ErrRangeInvalid = errors.New("invalid range")

	// ErrStaleTransaction indicates a transaction built against a different document.
	ErrStaleTransaction = errors.New("transaction does not apply to current document")

	// ErrViewDestroyed indicates an operation on a destroyed view.
	ErrViewDestroyed = errors.New("view is destroyed")
)
