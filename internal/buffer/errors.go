package buffer

import "errors"

// Errors returned by buffer operations.
var (
	// ErrInvalidCoord indicates a coordinate outside the buffer.
	ErrInvalidCoord = errors.New("coordinate out of range")

	// ErrInvalidRange indicates an erase range whose end precedes its start.
	ErrInvalidRange = errors.New("invalid range")

	// ErrReadOnly indicates a mutation on a read-only buffer.
	ErrReadOnly = errors.New("buffer is read-only")
)
