package lua

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout bounds a single top-level run.
const DefaultExecutionTimeout = 5 * time.Second

// State wraps gopher-lua with a sandbox and a per-run deadline.
//
// gopher-lua's LState is not goroutine-safe. The mutex serializes
// top-level runs from Go code. Calls made back into Lua from a Go function
// that Lua itself invoked (a script dispatching a command implemented in
// Lua) run inside the current top-level run and do not take the lock.
type State struct {
	L *lua.LState

	mu      sync.Mutex
	timeout time.Duration
	logger  *slog.Logger
	closed  bool
	running atomic.Bool

	preload map[string]lua.LGFunction
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the deadline for each top-level run. Zero or
// negative disables the deadline.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.timeout = d
	}
}

// WithLogger sets the logger that receives print output.
func WithLogger(logger *slog.Logger) StateOption {
	return func(s *State) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) *State {
	s := &State{
		timeout: DefaultExecutionTimeout,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		preload: make(map[string]lua.LGFunction),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.L = lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})
	openSafeLibraries(s.L)
	installSandbox(s.L, s.preload, s.logger)
	return s
}

// openSafeLibraries opens only the side-effect free standard libraries.
// io, os, debug and package are never opened.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
}

// DoFile executes a Lua file.
func (s *State) DoFile(ctx context.Context, path string) error {
	err := s.run(ctx, func(L *lua.LState) error {
		return L.DoFile(path)
	})
	if err != nil && !errors.Is(err, ErrStateClosed) {
		return &ScriptError{Script: path, Err: err}
	}
	return err
}

// DoString executes a chunk of Lua code.
func (s *State) DoString(ctx context.Context, code string) error {
	err := s.run(ctx, func(L *lua.LState) error {
		return L.DoString(code)
	})
	if err != nil && !errors.Is(err, ErrStateClosed) {
		return &ScriptError{Script: "<string>", Err: err}
	}
	return err
}

// CallFunction calls fn with args converted to Lua values and returns its
// first result.
func (s *State) CallFunction(ctx context.Context, fn *lua.LFunction, args ...any) (lua.LValue, error) {
	var ret lua.LValue = lua.LNil
	err := s.run(ctx, func(L *lua.LState) error {
		largs := make([]lua.LValue, len(args))
		for i, a := range args {
			largs[i] = toLuaValue(L, a)
		}
		if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, largs...); err != nil {
			return err
		}
		ret = L.Get(-1)
		L.Pop(1)
		return nil
	})
	return ret, err
}

// Call calls the global function named fn.
func (s *State) Call(ctx context.Context, fn string, args ...any) (lua.LValue, error) {
	v := s.GetGlobal(fn)
	f, ok := v.(*lua.LFunction)
	if !ok {
		return lua.LNil, fmt.Errorf("%w: %q (got %s)", ErrNotFunction, fn, v.Type())
	}
	return s.CallFunction(ctx, f, args...)
}

// run executes fn as a top-level run, or inline when already inside one.
func (s *State) run(ctx context.Context, fn func(L *lua.LState) error) error {
	if s.running.Load() {
		return doWithRecovery(s.L, fn)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStateClosed
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	s.running.Store(true)
	defer s.running.Store(false)

	err := doWithRecovery(s.L, fn)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
	}
	return err
}

// doWithRecovery runs fn, turning a Go panic into an error and restoring
// the stack top.
func doWithRecovery(L *lua.LState, fn func(L *lua.LState) error) (err error) {
	top := L.GetTop()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
		if L.GetTop() > top {
			L.SetTop(top)
		}
	}()
	return fn(L)
}

// Preload makes a Go module available to require(name).
func (s *State) Preload(name string, loader lua.LGFunction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preload[name] = loader
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	if s.running.Load() {
		return s.L.GetGlobal(name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// SetGlobal sets a global variable.
func (s *State) SetGlobal(name string, value lua.LValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.L.SetGlobal(name, value)
}

// IsClosed reports whether Close has been called.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases the Lua state. Later runs return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
