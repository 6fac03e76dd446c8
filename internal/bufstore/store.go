// Package bufstore provides the buffer registry: an explicit object that
// creates and looks up buffers by name. Components receive a *Store
// rather than reaching for process-wide state, so registry lifetime is an
// ordinary value lifetime.
package bufstore

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dshills/bufcore/internal/buffer"
)

// Errors returned by store operations.
var (
	// ErrBufferExists indicates a create with a name already in use.
	ErrBufferExists = errors.New("buffer already exists")

	// ErrBufferNotFound indicates a lookup of an unknown buffer name.
	ErrBufferNotFound = errors.New("buffer not found")
)

// Store registers buffers by name.
// All methods are safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	buffers map[string]*buffer.Buffer

	defaultTabWidth int
}

// Option configures a Store.
type Option func(*Store)

// WithDefaultTabWidth sets the tab width given to buffers the store
// creates. Values below 1 are clamped.
func WithDefaultTabWidth(width int) Option {
	return func(s *Store) {
		if width < 1 {
			width = 1
		}
		s.defaultTabWidth = width
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		buffers:         make(map[string]*buffer.Buffer),
		defaultTabWidth: 8,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a new buffer seeded with content and a modification
// time. A zero modTime marks a buffer without a reloadable backing file.
// Returns ErrBufferExists when the name is taken.
func (s *Store) Create(name string, flags buffer.Flags, content []byte, modTime time.Time) (*buffer.Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buffers[name]; ok {
		return nil, ErrBufferExists
	}

	buf := buffer.NewFromBytes(name, flags, content, modTime,
		buffer.WithTabWidth(s.defaultTabWidth))
	s.buffers[name] = buf
	return buf, nil
}

// Get returns the buffer registered under name, or nil when absent.
func (s *Store) Get(name string) *buffer.Buffer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buffers[name]
}

// Remove drops the buffer registered under name.
// Returns ErrBufferNotFound when absent.
func (s *Store) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buffers[name]; !ok {
		return ErrBufferNotFound
	}
	delete(s.buffers, name)
	return nil
}

// Count returns the number of registered buffers.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buffers)
}

// Names returns the registered buffer names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.buffers))
	for name := range s.buffers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
