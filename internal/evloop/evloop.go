// Package evloop multiplexes file descriptor readiness over poll(2).
//
// Watchers register a callback per descriptor; each Step polls the
// registered set once and invokes callbacks for descriptors that are
// readable, hung up, or errored. Callbacks run on the stepping
// goroutine and may unregister their own descriptor.
package evloop

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// ErrAlreadyWatched indicates a second registration for a descriptor.
var ErrAlreadyWatched = errors.New("descriptor already watched")

// readyEvents are the conditions that wake a watcher. Hangup and error
// are delivered even when not requested, so the callback must be ready
// for a descriptor that polls ready but reads zero bytes.
const readyEvents = unix.POLLIN | unix.POLLHUP | unix.POLLERR

// Callback is invoked when fd reports readiness.
type Callback func(fd int)

// Loop is a poll-based readiness multiplexer. Safe for concurrent use,
// though callbacks always run on the goroutine calling Step or Run.
type Loop struct {
	mu       sync.Mutex
	watchers map[int]Callback
}

// New creates an empty loop.
func New() *Loop {
	return &Loop{
		watchers: make(map[int]Callback),
	}
}

// Register watches fd and invokes cb whenever it becomes readable.
func (l *Loop) Register(fd int, cb Callback) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.watchers[fd]; ok {
		return ErrAlreadyWatched
	}
	l.watchers[fd] = cb
	return nil
}

// Unregister stops watching fd. Returns true when fd was watched.
func (l *Loop) Unregister(fd int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.watchers[fd]; !ok {
		return false
	}
	delete(l.watchers, fd)
	return true
}

// Watched returns the watched descriptors in ascending order.
func (l *Loop) Watched() []int {
	l.mu.Lock()
	defer l.mu.Unlock()

	fds := make([]int, 0, len(l.watchers))
	for fd := range l.watchers {
		fds = append(fds, fd)
	}
	sort.Ints(fds)
	return fds
}

// Step polls the watched set once, waiting up to timeout, and invokes
// the callbacks of ready descriptors. A negative timeout blocks until
// readiness. Returns the number of ready descriptors.
func (l *Loop) Step(timeout time.Duration) (int, error) {
	l.mu.Lock()
	fds := make([]unix.PollFd, 0, len(l.watchers))
	cbs := make([]Callback, 0, len(l.watchers))
	for fd, cb := range l.watchers {
		fds = append(fds, unix.PollFd{Fd: int32(fd), Events: readyEvents})
		cbs = append(cbs, cb)
	}
	l.mu.Unlock()

	if len(fds) == 0 {
		return 0, nil
	}

	ms := -1
	if timeout >= 0 {
		ms = int(timeout / time.Millisecond)
	}

	n, err := unix.Poll(fds, ms)
	for errors.Is(err, unix.EINTR) {
		n, err = unix.Poll(fds, ms)
	}
	if err != nil {
		return 0, err
	}

	for i, pfd := range fds {
		if pfd.Revents&readyEvents != 0 {
			cbs[i](int(pfd.Fd))
		}
	}
	return n, nil
}

// Run steps the loop until ctx is done, using short poll timeouts so
// cancellation is observed promptly.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if _, err := l.Step(50 * time.Millisecond); err != nil {
			return err
		}
	}
}

// Readable reports whether fd has pending input right now, without
// blocking. Hangup counts as readable so a pending EOF is drained.
func Readable(fd int) bool {
	fds := []unix.PollFd{{Fd: int32(fd), Events: readyEvents}}

	n, err := unix.Poll(fds, 0)
	for errors.Is(err, unix.EINTR) {
		n, err = unix.Poll(fds, 0)
	}
	return err == nil && n > 0 && fds[0].Revents&readyEvents != 0
}
