package suggest

import "errors"

// Configuration errors returned by New.
var (
	// ErrNoMatcher indicates neither a trigger nor a matcher was configured.
	ErrNoMatcher = errors.New("suggest: no trigger or matcher configured")

	// ErrInvalidTrigger indicates a trigger that can never match.
	ErrInvalidTrigger = errors.New("suggest: trigger must be non-empty and contain no spaces")

	// ErrNilHandler indicates a missing handler.
	ErrNilHandler = errors.New("suggest: handler is nil")
)
