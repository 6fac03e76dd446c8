package fifo

import "errors"

// Package errors.
var (
	// ErrNotAttached indicates an operation on a buffer with no live
	// stream watcher.
	ErrNotAttached = errors.New("no stream attached to buffer")
)
