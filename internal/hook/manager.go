package hook

import (
	"sort"
	"sync"
)

// Manager registers handlers per event and runs them in priority order.
type Manager struct {
	mu       sync.RWMutex
	handlers map[Event][]Handler
}

// NewManager creates an empty hook manager.
func NewManager() *Manager {
	return &Manager{
		handlers: make(map[Event][]Handler),
	}
}

// Register adds a handler for ev. A handler with the same name replaces
// the existing one. Handlers are kept sorted by priority, higher first.
func (m *Manager) Register(ev Event, h Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.handlers[ev]
	for i, existing := range list {
		if existing.Name() == h.Name() {
			list[i] = h
			m.sortLocked(ev)
			return
		}
	}

	m.handlers[ev] = append(list, h)
	m.sortLocked(ev)
}

// RegisterFunc is a convenience wrapper around Register.
func (m *Manager) RegisterFunc(ev Event, name string, priority int, fn func(ev Event, bufName, payload string)) {
	m.Register(ev, NewFunc(name, priority, fn))
}

// Unregister removes the handler with the given name from ev.
// Returns true when a handler was removed.
func (m *Manager) Unregister(ev Event, name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.handlers[ev]
	for i, h := range list {
		if h.Name() == name {
			m.handlers[ev] = append(list[:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// Run fires ev for bufName with payload. Handlers run synchronously on
// the calling thread, in priority order.
func (m *Manager) Run(ev Event, bufName, payload string) {
	m.mu.RLock()
	list := make([]Handler, len(m.handlers[ev]))
	copy(list, m.handlers[ev])
	m.mu.RUnlock()

	for _, h := range list {
		h.OnHook(ev, bufName, payload)
	}
}

// Count returns the number of handlers registered for ev.
func (m *Manager) Count(ev Event) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handlers[ev])
}

// sortLocked sorts ev's handlers by priority descending; the caller
// holds m.mu.
func (m *Manager) sortLocked(ev Event) {
	list := m.handlers[ev]
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Priority() > list[j].Priority()
	})
}
