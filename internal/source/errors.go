package source

import "errors"

var (
	// ErrUnknownSource is returned for a source name that was never loaded.
	ErrUnknownSource = errors.New("unknown source")

	// ErrMalformed is returned when fixture data does not match its schema.
	ErrMalformed = errors.New("malformed source data")
)
