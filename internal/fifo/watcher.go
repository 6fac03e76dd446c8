package fifo

import (
	"sync"

	"github.com/google/uuid"
)

// State tracks a watcher's lifecycle.
type State int

// Watcher states. A watcher moves forward only: Attached while the
// stream is live, Draining once end of stream is seen and the final
// burst is being delivered, Closed after teardown. Closed is terminal.
const (
	StateAttached State = iota
	StateDraining
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateAttached:
		return "attached"
	case StateDraining:
		return "draining"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Watcher binds one stream descriptor to one buffer. Watchers are
// created by Ingester.Attach and self-destruct when the stream ends.
type Watcher struct {
	mu      sync.Mutex
	id      string
	bufName string
	fd      int
	scroll  bool
	state   State
}

func newWatcher(bufName string, fd int, scroll bool) *Watcher {
	return &Watcher{
		id:      uuid.NewString(),
		bufName: bufName,
		fd:      fd,
		scroll:  scroll,
		state:   StateAttached,
	}
}

// ID returns the watcher's unique identifier.
func (w *Watcher) ID() string { return w.id }

// BufferName returns the name of the buffer this watcher feeds.
func (w *Watcher) BufferName() string { return w.bufName }

// State returns the watcher's current lifecycle state.
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Watcher) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

// beginClose transitions to Closed and reports whether this caller won
// the transition. Teardown runs at most once per watcher.
func (w *Watcher) beginClose() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateClosed {
		return false
	}
	w.state = StateClosed
	return true
}
