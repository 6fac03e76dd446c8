// Package hook dispatches named buffer lifecycle events to registered
// handlers. The core only fires events; rendering, configuration, and
// scripting layers subscribe from outside.
package hook

// Event names a buffer lifecycle event.
type Event string

// Buffer lifecycle events and their payloads.
const (
	// BufOpenFile fires after a file buffer is opened. Payload: buffer name.
	BufOpenFile Event = "BufOpenFile"

	// BufNewFile fires after a buffer is created for a missing file.
	// Payload: buffer name.
	BufNewFile Event = "BufNewFile"

	// BufOpenFifo fires after a stream watcher attaches to a buffer.
	// Payload: buffer name.
	BufOpenFifo Event = "BufOpenFifo"

	// BufReadFifo fires after a read burst inserted stream data.
	// Payload: the inserted text.
	BufReadFifo Event = "BufReadFifo"

	// BufCloseFifo fires when a stream watcher tears down. Payload: empty.
	BufCloseFifo Event = "BufCloseFifo"
)

// Handler reacts to events.
type Handler interface {
	// Name returns a unique identifier for this handler. Registering a
	// handler with an existing name replaces the old one.
	Name() string

	// Priority orders handlers; higher values run first.
	Priority() int

	// OnHook is called with the event, the owning buffer's name, and the
	// event payload.
	OnHook(ev Event, bufName, payload string)
}

// Func wraps a function as a Handler.
type Func struct {
	name     string
	priority int
	fn       func(ev Event, bufName, payload string)
}

// NewFunc creates a function-backed handler.
func NewFunc(name string, priority int, fn func(ev Event, bufName, payload string)) *Func {
	return &Func{
		name:     name,
		priority: priority,
		fn:       fn,
	}
}

// Name implements Handler.
func (f *Func) Name() string { return f.name }

// Priority implements Handler.
func (f *Func) Priority() int { return f.priority }

// OnHook implements Handler.
func (f *Func) OnHook(ev Event, bufName, payload string) {
	if f.fn != nil {
		f.fn(ev, bufName, payload)
	}
}
