// Package fifo streams data from file descriptors into buffers.
//
// An Ingester attaches pipe or FIFO descriptors to named buffers and
// appends incoming data as it arrives, one read burst per event loop
// wake. Data always lands at the buffer's append point so a chunk that
// ends mid-line is completed by the next chunk.
package fifo

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/dshills/bufcore/internal/buffer"
	"github.com/dshills/bufcore/internal/bufstore"
	"github.com/dshills/bufcore/internal/evloop"
	"github.com/dshills/bufcore/internal/hook"
	"github.com/dshills/bufcore/internal/log"
)

const (
	// readChunkSize is the read buffer size per read(2) call.
	readChunkSize = 2048

	// maxReadsPerWake caps reads per event loop wake. A fast producer
	// must not starve the loop's other descriptors.
	maxReadsPerWake = 16
)

// Ingester owns stream watchers, at most one per buffer. Safe for
// concurrent use; read callbacks run on the event loop goroutine.
type Ingester struct {
	mu       sync.Mutex
	store    *bufstore.Store
	loop     *evloop.Loop
	hooks    *hook.Manager
	logger   *log.Logger
	watchers map[string]*Watcher
}

// Option configures an Ingester.
type Option func(*Ingester)

// WithHooks sets the hook manager used for stream lifecycle events.
func WithHooks(h *hook.Manager) Option {
	return func(in *Ingester) {
		in.hooks = h
	}
}

// WithLogger sets the ingester's logger.
func WithLogger(logger *log.Logger) Option {
	return func(in *Ingester) {
		in.logger = logger
	}
}

// New creates an ingester feeding buffers in store, driven by loop.
func New(store *bufstore.Store, loop *evloop.Loop, opts ...Option) *Ingester {
	in := &Ingester{
		store:    store,
		loop:     loop,
		logger:   log.Null,
		watchers: make(map[string]*Watcher),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Attach binds fd to the buffer called name and starts streaming. The
// ingester takes ownership of fd and closes it on teardown.
//
// An existing buffer is reset and reused; a missing one is created
// empty. A watcher already attached to the buffer is torn down first,
// never stacked. When scroll is false, insertions into a buffer whose
// append point is still at the origin are shifted so a viewer anchored
// at the first line stays put.
func (in *Ingester) Attach(name string, fd int, flags buffer.Flags, scroll bool) (*buffer.Buffer, error) {
	if old := in.Watcher(name); old != nil {
		in.teardown(old)
	}

	in.mu.Lock()
	buf := in.store.Get(name)
	if buf != nil {
		buf.OrFlags(buffer.FlagNoUndo | flags)
		buf.Reload(nil, time.Time{})
	} else {
		var err error
		buf, err = in.store.Create(name, flags|buffer.FlagFifo|buffer.FlagNoUndo, nil, time.Time{})
		if err != nil {
			in.mu.Unlock()
			return nil, err
		}
	}
	buf.SetFlags(flags | buffer.FlagFifo | buffer.FlagNoUndo)

	w := newWatcher(name, fd, scroll)
	in.watchers[name] = w
	in.mu.Unlock()

	if err := in.loop.Register(fd, func(int) { in.onReadable(w) }); err != nil {
		in.mu.Lock()
		delete(in.watchers, name)
		in.mu.Unlock()
		return nil, err
	}

	in.logger.Debug("attached fd %d to %s (scroll=%v)", fd, name, scroll)
	in.fire(hook.BufOpenFifo, name, name)
	return buf, nil
}

// Detach tears down the watcher feeding the named buffer. The
// descriptor is closed and the buffer keeps whatever it received.
func (in *Ingester) Detach(name string) error {
	w := in.Watcher(name)
	if w == nil {
		return ErrNotAttached
	}
	in.teardown(w)
	return nil
}

// Watcher returns the live watcher for the named buffer, or nil.
func (in *Ingester) Watcher(name string) *Watcher {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.watchers[name]
}

// Count returns the number of live watchers.
func (in *Ingester) Count() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.watchers)
}

// onReadable drains one burst from the watcher's descriptor into its
// buffer. Runs on the event loop goroutine, never reentrantly.
func (in *Ingester) onReadable(w *Watcher) {
	buf := in.store.Get(w.bufName)
	if buf == nil {
		// Buffer removed out from under the stream.
		in.teardown(w)
		return
	}

	start := buf.Back()
	saved := buf.Flags()
	buf.ClearFlags(buffer.FlagReadOnly)

	chunk := make([]byte, readChunkSize)
	closed := false
	for i := 0; i < maxReadsPerWake; i++ {
		n, err := unix.Read(w.fd, chunk)
		for err == unix.EINTR {
			n, err = unix.Read(w.fd, chunk)
		}
		if n <= 0 || err != nil {
			// End of stream and read failure take the same exit.
			closed = true
			break
		}

		in.insert(buf, chunk[:n], w.scroll)

		if !evloop.Readable(w.fd) {
			break
		}
	}

	buf.SetFlags(saved)

	if back := buf.Back(); back != start {
		in.fire(hook.BufReadFifo, buf.Name(), buf.TextRange(start, back))
	}

	if closed {
		w.setState(StateDraining)
		in.teardown(w)
	}
}

// insert appends one chunk at the buffer's append point. With scroll
// off and the append point still at the origin, the insertion goes one
// position later so the first line keeps its identity; the leftover
// empty first line is then erased, and a trailing separator is restored
// when the chunk ended a line.
func (in *Ingester) insert(buf *buffer.Buffer, data []byte, scroll bool) {
	pos := buf.Back()
	shift := pos == buffer.Origin && !scroll
	if shift {
		pos = buf.Next(pos)
	}

	if err := buf.Insert(pos, string(data)); err != nil {
		in.logger.Error("stream insert into %s failed: %v", buf.Name(), err)
		return
	}

	if shift {
		buf.Erase(buf.First(), buf.Next(buf.First()))
		if data[len(data)-1] == '\n' {
			buf.Insert(buf.End(), "\n")
		}
	}
}

// teardown closes the watcher exactly once: the descriptor is
// unregistered and closed, the buffer loses its stream flags, and
// BufCloseFifo fires.
func (in *Ingester) teardown(w *Watcher) {
	if !w.beginClose() {
		return
	}

	in.loop.Unregister(w.fd)
	unix.Close(w.fd)

	if buf := in.store.Get(w.bufName); buf != nil {
		buf.ClearFlags(buffer.FlagFifo | buffer.FlagNoUndo)
	}

	in.mu.Lock()
	if in.watchers[w.bufName] == w {
		delete(in.watchers, w.bufName)
	}
	in.mu.Unlock()

	in.logger.Debug("detached fd %d from %s", w.fd, w.bufName)
	in.fire(hook.BufCloseFifo, w.bufName, "")
}

func (in *Ingester) fire(ev hook.Event, bufName, payload string) {
	if in.hooks != nil {
		in.hooks.Run(ev, bufName, payload)
	}
}
