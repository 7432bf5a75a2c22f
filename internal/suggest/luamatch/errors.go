package luamatch

import "errors"

// Errors for Lua matchers.
var (
	// ErrClosed is returned when operating on a closed script.
	ErrClosed = errors.New("lua matcher is closed")

	// ErrNoMatchFunc is returned when a script does not define match().
	ErrNoMatchFunc = errors.New("lua script does not define a match function")

	// ErrBadResult is returned when match() returns malformed values.
	ErrBadResult = errors.New("lua match returned malformed result")
)
