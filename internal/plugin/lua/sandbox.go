package lua

import (
	"log/slog"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// blockedGlobals load code from outside the host's control.
var blockedGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"module",
}

// builtinModules may be required by name without a preload.
var builtinModules = map[string]bool{
	"string": true,
	"table":  true,
	"math":   true,
}

// installSandbox removes the loaders, routes print to logger and replaces
// require with a resolver limited to builtin and preloaded modules.
func installSandbox(L *lua.LState, preload map[string]lua.LGFunction, logger *slog.Logger) {
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, L.GetTop())
		for i := range parts {
			parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
		}
		logger.Info("script output", "text", strings.Join(parts, "\t"))
		return 0
	}))

	loaded := L.NewTable()
	L.SetGlobal("require", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if mod := loaded.RawGetString(name); mod != lua.LNil {
			L.Push(mod)
			return 1
		}
		if builtinModules[name] {
			L.Push(L.GetGlobal(name))
			return 1
		}

		loader, ok := preload[name]
		if !ok {
			L.RaiseError("module %q is not available", name)
			return 0
		}
		L.Push(L.NewFunction(loader))
		L.Push(lua.LString(name))
		L.Call(1, 1)
		mod := L.Get(-1)
		L.Pop(1)
		if mod == lua.LNil {
			mod = lua.LTrue
		}
		loaded.RawSetString(name, mod)
		L.Push(mod)
		return 1
	}))
}
