package hook

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// LuaHandler runs a Lua function for hook events, letting consumers
// script hook reactions without linking Go code.
//
// gopher-lua states are not goroutine-safe; the handler serializes all
// calls into its state.
type LuaHandler struct {
	mu       sync.Mutex
	name     string
	priority int
	state    *lua.LState
	fn       lua.LValue
	closed   bool
	onError  func(error)
}

// LuaOption configures a LuaHandler.
type LuaOption func(*LuaHandler)

// WithLuaErrorFunc sets a callback for Lua execution errors. By default
// errors are discarded: a failing hook script must not fail the core.
func WithLuaErrorFunc(fn func(error)) LuaOption {
	return func(h *LuaHandler) {
		h.onError = fn
	}
}

// NewLuaHandler loads script into a fresh Lua state and binds the global
// function fnName as the event callback. The callback receives
// (event, buffer name, payload) as strings.
func NewLuaHandler(name string, priority int, script, fnName string, opts ...LuaOption) (*LuaHandler, error) {
	L := lua.NewState()
	if err := L.DoString(script); err != nil {
		L.Close()
		return nil, fmt.Errorf("lua handler %s: %w", name, err)
	}

	fn := L.GetGlobal(fnName)
	if fn.Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("lua handler %s: global %q is not a function", name, fnName)
	}

	h := &LuaHandler{
		name:     name,
		priority: priority,
		state:    L,
		fn:       fn,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Name implements Handler.
func (h *LuaHandler) Name() string { return h.name }

// Priority implements Handler.
func (h *LuaHandler) Priority() int { return h.priority }

// OnHook implements Handler by calling the bound Lua function.
func (h *LuaHandler) OnHook(ev Event, bufName, payload string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	err := h.state.CallByParam(lua.P{Fn: h.fn, NRet: 0, Protect: true},
		lua.LString(ev), lua.LString(bufName), lua.LString(payload))
	if err != nil && h.onError != nil {
		h.onError(err)
	}
}

// Close releases the Lua state. The handler ignores further events.
func (h *LuaHandler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	h.state.Close()
}
