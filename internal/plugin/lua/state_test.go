package lua

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	glua "github.com/yuin/gopher-lua"
)

func TestStateDoString(t *testing.T) {
	state := NewState()
	defer state.Close()

	if err := state.DoString(context.Background(), `x = 1 + 1`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	v := state.GetGlobal("x")
	if num, ok := v.(glua.LNumber); !ok || float64(num) != 2 {
		t.Errorf("x = %v, want 2", v)
	}
}

func TestStateDoStringSyntaxError(t *testing.T) {
	state := NewState()
	defer state.Close()

	err := state.DoString(context.Background(), `invalid lua code !!!`)
	var serr *ScriptError
	if !errors.As(err, &serr) {
		t.Fatalf("DoString() error = %v, want *ScriptError", err)
	}
	if serr.Script != "<string>" {
		t.Errorf("Script = %q", serr.Script)
	}
}

func TestStateTimeout(t *testing.T) {
	state := NewState(WithExecutionTimeout(50 * time.Millisecond))
	defer state.Close()

	err := state.DoString(context.Background(), `while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("DoString() error = %v, want ErrExecutionTimeout", err)
	}

	// The state stays usable after a timeout.
	if err := state.DoString(context.Background(), `y = 3`); err != nil {
		t.Errorf("DoString() after timeout error = %v", err)
	}
}

func TestStateCall(t *testing.T) {
	state := NewState()
	defer state.Close()

	if err := state.DoString(context.Background(), `
		function join(list) return table.concat(list, "+") end
		notfn = 5
	`); err != nil {
		t.Fatal(err)
	}

	ret, err := state.Call(context.Background(), "join", []string{"a", "b"})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if ret.String() != "a+b" {
		t.Errorf("Call() = %q, want %q", ret.String(), "a+b")
	}

	if _, err := state.Call(context.Background(), "notfn"); !errors.Is(err, ErrNotFunction) {
		t.Errorf("Call(notfn) error = %v, want ErrNotFunction", err)
	}
	if _, err := state.Call(context.Background(), "missing"); !errors.Is(err, ErrNotFunction) {
		t.Errorf("Call(missing) error = %v, want ErrNotFunction", err)
	}
}

func TestStateClosed(t *testing.T) {
	state := NewState()
	if err := state.Close(); err != nil {
		t.Fatal(err)
	}
	if !state.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}
	if err := state.DoString(context.Background(), `x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() error = %v, want ErrStateClosed", err)
	}
	if err := state.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestSandbox(t *testing.T) {
	state := NewState()
	defer state.Close()

	tests := []struct {
		name string
		code string
	}{
		{"io absent", `assert(io == nil)`},
		{"os absent", `assert(os == nil)`},
		{"debug absent", `assert(debug == nil)`},
		{"package absent", `assert(package == nil)`},
		{"dofile removed", `assert(dofile == nil)`},
		{"loadfile removed", `assert(loadfile == nil)`},
		{"load removed", `assert(load == nil)`},
		{"loadstring removed", `assert(loadstring == nil)`},
		{"string available", `assert(string.upper("a") == "A")`},
		{"math available", `assert(math.max(1, 2) == 2)`},
		{"require builtin", `assert(require("table") == table)`},
		{"require os rejected", `assert(not pcall(require, "os"))`},
		{"require file rejected", `assert(not pcall(require, "some.module"))`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := state.DoString(context.Background(), tt.code); err != nil {
				t.Errorf("DoString(%q) error = %v", tt.code, err)
			}
		})
	}
}

func TestSandboxPreload(t *testing.T) {
	state := NewState()
	defer state.Close()

	loads := 0
	state.Preload("greet", func(L *glua.LState) int {
		loads++
		mod := L.NewTable()
		mod.RawSetString("name", glua.LString("hi"))
		L.Push(mod)
		return 1
	})

	err := state.DoString(context.Background(), `
		local a = require("greet")
		local b = require("greet")
		assert(a == b)
		assert(a.name == "hi")
	`)
	if err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if loads != 1 {
		t.Errorf("loader ran %d times, want 1", loads)
	}
}

func TestSandboxPrintLogs(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, nil))
	state := NewState(WithLogger(logger))
	defer state.Close()

	if err := state.DoString(context.Background(), `print("hello", 42)`); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `text="hello\t42"`) {
		t.Errorf("log output = %q", out.String())
	}
}
