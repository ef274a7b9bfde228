package lua

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/mdenhance/internal/dispatcher/execctx"
	"github.com/dshills/mdenhance/internal/dispatcher/handler"
	"github.com/dshills/mdenhance/internal/dispatcher/handlers/markdown"
	"github.com/dshills/mdenhance/internal/input"
)

// ModuleName is the global and require name of the editor module.
const ModuleName = "md"

// Host is the command surface scripts drive.
type Host interface {
	Dispatch(action input.Action) handler.Result
	RegisterHandlerFunc(name string, fn handler.Func)
	Editor() execctx.EditorInterface
}

// Runtime is a sandboxed state with the md module bound to a host.
type Runtime struct {
	state  *State
	host   Host
	logger *slog.Logger

	mu       sync.Mutex
	commands map[string]*lua.LFunction
}

// NewRuntime creates a state and installs the md module.
func NewRuntime(host Host, opts ...StateOption) *Runtime {
	r := &Runtime{
		state:    NewState(opts...),
		host:     host,
		commands: make(map[string]*lua.LFunction),
	}
	r.logger = r.state.logger

	L := r.state.L
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"highlight": r.luaHighlight,
		"toggle":    r.luaToggle,
		"execute":   r.luaExecute,
		"text":      r.luaText,
		"register":  r.luaRegister,
		"log":       r.luaLog,
	})
	r.state.SetGlobal(ModuleName, mod)
	r.state.Preload(ModuleName, func(L *lua.LState) int {
		L.Push(mod)
		return 1
	})
	return r
}

// State returns the underlying state.
func (r *Runtime) State() *State {
	return r.state
}

// RunFile executes a script file.
func (r *Runtime) RunFile(ctx context.Context, path string) error {
	r.logger.Debug("running script", "path", path)
	return r.state.DoFile(ctx, path)
}

// RunString executes a chunk of Lua code.
func (r *Runtime) RunString(ctx context.Context, code string) error {
	return r.state.DoString(ctx, code)
}

// Commands returns the names registered through md.register, sorted.
func (r *Runtime) Commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close releases the state. Commands registered by scripts fail
// afterwards with ErrStateClosed.
func (r *Runtime) Close() error {
	return r.state.Close()
}

func (r *Runtime) dispatch(L *lua.LState, action input.Action) int {
	res := r.host.Dispatch(action.WithSource(input.SourceScript))
	if res.Status == handler.StatusError {
		L.RaiseError("%s: %v", action.Name, res.Error)
		return 0
	}
	L.Push(lua.LString(res.Status.String()))
	L.Push(lua.LString(res.Message))
	if len(res.Data) == 0 {
		return 2
	}
	L.Push(toLuaValue(L, res.Data))
	return 3
}

// md.highlight(n)
func (r *Runtime) luaHighlight(L *lua.LState) int {
	n := L.CheckInt(1)
	if n < 1 || n > len(markdown.HighlightActions) {
		L.ArgError(1, fmt.Sprintf("highlight must be 1..%d", len(markdown.HighlightActions)))
		return 0
	}
	return r.dispatch(L, input.NewAction(markdown.HighlightActions[n-1]))
}

// md.toggle(prefix, suffix [, tag])
func (r *Runtime) luaToggle(L *lua.LState) int {
	action := input.NewAction(markdown.ActionToggleInline).
		WithExtra(markdown.ArgPrefix, L.CheckString(1)).
		WithExtra(markdown.ArgSuffix, L.CheckString(2)).
		WithExtra(markdown.ArgTag, L.OptString(3, ""))
	return r.dispatch(L, action)
}

// md.execute(name [, args]). A list of args becomes the positional
// strings and string keys become named arguments.
func (r *Runtime) luaExecute(L *lua.LState) int {
	action := input.NewAction(L.CheckString(1))
	if args := L.OptTable(2, nil); args != nil {
		args.ForEach(func(k, v lua.LValue) {
			if key, ok := k.(lua.LString); ok {
				action = action.WithExtra(string(key), toGoValue(v))
			}
		})
		var strs []string
		for i := 1; i <= args.Len(); i++ {
			strs = append(strs, lua.LVAsString(L.ToStringMeta(args.RawGetInt(i))))
		}
		if len(strs) > 0 {
			action = action.WithStrings(strs...)
		}
	}
	return r.dispatch(L, action)
}

// md.text()
func (r *Runtime) luaText(L *lua.LState) int {
	ed := r.host.Editor()
	if ed == nil {
		L.Push(lua.LString(""))
		return 1
	}
	L.Push(lua.LString(ed.Text()))
	return 1
}

// md.register(name, fn)
func (r *Runtime) luaRegister(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	if name == "" {
		L.ArgError(1, "command name must not be empty")
		return 0
	}

	r.mu.Lock()
	r.commands[name] = fn
	r.mu.Unlock()

	r.host.RegisterHandlerFunc(name, r.commandFunc(fn))
	r.logger.Debug("script command registered", "command", name)
	return 0
}

// md.log(msg, key, value, ...)
func (r *Runtime) luaLog(L *lua.LState) int {
	msg := L.CheckString(1)
	var attrs []any
	for i := 2; i+1 <= L.GetTop(); i += 2 {
		attrs = append(attrs, L.ToStringMeta(L.Get(i)).String(), toGoValue(L.Get(i+1)))
	}
	r.logger.Info(msg, attrs...)
	return 0
}

// commandFunc adapts a Lua function to a dispatcher handler. The function
// receives the positional arguments as a list.
func (r *Runtime) commandFunc(fn *lua.LFunction) handler.Func {
	return func(action input.Action, _ *execctx.ExecutionContext) handler.Result {
		args := append([]string{}, action.Args.Strings...)
		if action.Args.Text != "" && len(args) == 0 {
			args = []string{action.Args.Text}
		}
		ret, err := r.state.CallFunction(context.Background(), fn, args)
		if err != nil {
			return handler.Error(err)
		}

		switch v := ret.(type) {
		case *lua.LNilType:
			return handler.Success()
		case lua.LBool:
			if bool(v) {
				return handler.Success()
			}
			return handler.NoOp()
		case lua.LString:
			return handler.SuccessWithMessage(string(v))
		default:
			return handler.Success().WithData("value", toGoValue(v))
		}
	}
}
