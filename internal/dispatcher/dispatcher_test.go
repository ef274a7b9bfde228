package dispatcher_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/mdenhance/internal/dispatcher"
	"github.com/dshills/mdenhance/internal/dispatcher/execctx"
	"github.com/dshills/mdenhance/internal/dispatcher/handler"
	"github.com/dshills/mdenhance/internal/editor"
	"github.com/dshills/mdenhance/internal/input"
)

func ok(input.Action, *execctx.ExecutionContext) handler.Result {
	return handler.Success()
}

func TestNewWithDefaults(t *testing.T) {
	d := dispatcher.NewWithDefaults()

	if d.Registry() == nil || d.Router() == nil {
		t.Fatal("expected registry and router")
	}
	if d.Metrics() != nil {
		t.Error("expected nil metrics by default")
	}
	if !d.Config().RecoverFromPanic {
		t.Error("expected panic recovery by default")
	}
}

func TestDispatchNoHandler(t *testing.T) {
	d := dispatcher.NewWithDefaults()

	result := d.Dispatch(input.NewAction("unknown.action"))

	if !result.IsError() || !errors.Is(result.Error, dispatcher.ErrNoHandler) {
		t.Errorf("expected ErrNoHandler, got %+v", result)
	}
}

func TestDispatchEmptyName(t *testing.T) {
	result := dispatcher.NewWithDefaults().Dispatch(input.Action{})
	if !errors.Is(result.Error, dispatcher.ErrInvalidAction) {
		t.Errorf("expected ErrInvalidAction, got %v", result.Error)
	}
}

func TestDispatchPassesEditor(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	ed := editor.NewFromString("hello")
	d.SetEditor(ed)
	d.SetFilePath("notes.md")

	var got *execctx.ExecutionContext
	d.RegisterHandlerFunc("probe", func(_ input.Action, ctx *execctx.ExecutionContext) handler.Result {
		got = ctx
		return handler.Success()
	})

	if r := d.Dispatch(input.NewAction("probe")); !r.IsOK() {
		t.Fatalf("Dispatch() = %+v", r)
	}
	if got.Editor != ed || got.FilePath != "notes.md" || got.Logger == nil {
		t.Errorf("context not populated: %+v", got)
	}
}

func TestRegisterNamespace(t *testing.T) {
	d := dispatcher.NewWithDefaults()

	ns := handler.NewBaseNamespaceHandler("markdown")
	ns.Register("markdown.toggleInline", ok)
	ns.Register("markdownHL1", func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithMessage("hl1")
	})
	d.RegisterNamespace(ns)

	if r := d.Dispatch(input.NewAction("markdown.toggleInline")); !r.IsOK() {
		t.Errorf("dotted action: %+v", r)
	}
	if r := d.Dispatch(input.NewAction("markdownHL1")); r.Message != "hl1" {
		t.Errorf("undotted action should route by name: %+v", r)
	}
	if r := d.Dispatch(input.NewAction("markdown.missing")); !r.IsError() {
		t.Error("unclaimed action in a known namespace should fail")
	}
}

func TestCommands(t *testing.T) {
	d := dispatcher.NewWithDefaults()

	ns := handler.NewBaseNamespaceHandler("mermaid")
	ns.Register("mermaid.foldAll", ok)
	ns.Register("mermaid.unfoldAll", ok)
	d.RegisterNamespace(ns)

	tbl := handler.NewBaseNamespaceHandler("table")
	tbl.Register("alignColumnLeft", ok)
	tbl.Register("table.alignColumns", ok)
	d.RegisterNamespace(tbl)

	d.RegisterHandlerFunc("quick", ok)

	want := []string{"alignColumnLeft", "mermaid.foldAll", "mermaid.unfoldAll", "quick", "table.alignColumns"}
	if diff := cmp.Diff(want, d.Commands()); diff != "" {
		t.Errorf("Commands() mismatch (-want +got):\n%s", diff)
	}
	if !d.HasCommand("alignColumnLeft") || d.HasCommand("alignColumnRight") {
		t.Error("HasCommand mismatch")
	}
}

func TestRegistryPriorityAndOverride(t *testing.T) {
	d := dispatcher.NewWithDefaults()

	d.RegisterHandler("x", handler.NewHandlerFuncWithPriority(func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithMessage("high")
	}, 10))
	d.RegisterHandlerFunc("x", func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithMessage("low")
	})
	if r := d.Dispatch(input.NewAction("x")); r.Message != "high" {
		t.Errorf("expected higher priority handler, got %q", r.Message)
	}

	d.RegisterHandlerFunc("y", func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithMessage("first")
	})
	d.RegisterHandlerFunc("y", func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithMessage("second")
	})
	if r := d.Dispatch(input.NewAction("y")); r.Message != "second" {
		t.Errorf("later registration should win, got %q", r.Message)
	}

	d.UnregisterHandler("y")
	if d.HasCommand("y") {
		t.Error("handler should be removed")
	}
}

func TestPanicRecovery(t *testing.T) {
	d := dispatcher.New(dispatcher.DefaultConfig().WithMetrics())
	d.RegisterHandlerFunc("boom", func(input.Action, *execctx.ExecutionContext) handler.Result {
		panic("kaboom")
	})

	result := d.Dispatch(input.NewAction("boom"))

	if !errors.Is(result.Error, dispatcher.ErrPanic) {
		t.Fatalf("expected ErrPanic, got %v", result.Error)
	}
	snap := d.Metrics().Snapshot()
	if snap.TotalPanics != 1 || snap.TotalErrors != 1 {
		t.Errorf("metrics snapshot = %+v", snap)
	}
}

func TestHooks(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	d.RegisterHandlerFunc("edit", ok)
	d.RegisterHandlerFunc("blocked", ok)

	var seen []string
	d.RegisterPreHook(dispatcher.PreDispatchFunc(func(a *input.Action, _ *execctx.ExecutionContext) bool {
		return a.Name != "blocked"
	}))
	d.RegisterPostHook(dispatcher.PostDispatchFunc(func(a *input.Action, _ *execctx.ExecutionContext, r *handler.Result) {
		seen = append(seen, a.Name+":"+r.Status.String())
	}))

	if r := d.Dispatch(input.NewAction("blocked")); r.Status != handler.StatusCancelled {
		t.Errorf("expected cancelled, got %v", r.Status)
	}
	d.Dispatch(input.NewAction("edit"))

	if diff := cmp.Diff([]string{"edit:ok"}, seen); diff != "" {
		t.Errorf("post hooks mismatch (-want +got):\n%s", diff)
	}
}

func TestMetrics(t *testing.T) {
	d := dispatcher.New(dispatcher.DefaultConfig().WithMetrics())
	d.RegisterHandlerFunc("a", ok)
	d.RegisterHandlerFunc("b", func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.Errorf("nope")
	})

	d.Dispatch(input.NewAction("a"))
	d.Dispatch(input.NewAction("a"))
	d.Dispatch(input.NewAction("b"))

	stats := d.Metrics().ActionStats("a")
	if stats == nil || stats.DispatchCount != 2 {
		t.Fatalf("ActionStats(a) = %+v", stats)
	}
	if d.Metrics().ActionStats("b").ErrorCount != 1 {
		t.Error("expected one error for b")
	}
	top := d.Metrics().TopActions(1)
	if len(top) != 1 || top[0].Name != "a" {
		t.Errorf("TopActions(1) = %+v", top)
	}
	if d.Metrics().ActionStats("missing") != nil {
		t.Error("expected nil stats for unknown action")
	}
	if avg := stats.AverageDuration(); avg < 0 || avg > stats.MaxDuration {
		t.Errorf("AverageDuration() = %v, max %v", avg, stats.MaxDuration)
	}
	if (&dispatcher.ActionMetrics{}).AverageDuration() != 0 {
		t.Error("AverageDuration of an unused action should be zero")
	}
}

func TestSlowDispatchLogged(t *testing.T) {
	var buf bytes.Buffer
	d := dispatcher.New(dispatcher.DefaultConfig().WithSlowThreshold(time.Nanosecond))
	d.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	d.RegisterHandlerFunc("slow", func(input.Action, *execctx.ExecutionContext) handler.Result {
		time.Sleep(time.Millisecond)
		return handler.Success()
	})

	d.Dispatch(input.NewAction("slow"))

	if !strings.Contains(buf.String(), "slow dispatch") {
		t.Errorf("expected slow dispatch warning, got %q", buf.String())
	}
}

func TestPanicRecoveryDisabled(t *testing.T) {
	d := dispatcher.New(dispatcher.DefaultConfig().WithPanicRecovery(false))
	d.RegisterHandlerFunc("boom", func(input.Action, *execctx.ExecutionContext) handler.Result {
		panic("boom")
	})

	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("recover() = %v, want the handler panic", r)
		}
	}()
	d.Dispatch(input.NewAction("boom"))
	t.Error("Dispatch should have panicked")
}

func TestRouterNamespaces(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	for _, ns := range []string{"table", "mermaid"} {
		h := handler.NewBaseNamespaceHandler(ns)
		h.Register(ns+".run", ok)
		d.RegisterNamespace(h)
	}

	if diff := cmp.Diff([]string{"mermaid", "table"}, d.Router().Namespaces()); diff != "" {
		t.Errorf("Namespaces() mismatch (-want +got):\n%s", diff)
	}

	d.Router().UnregisterNamespace("table")
	if d.HasCommand("table.run") {
		t.Error("table.run still routable after unregistering its namespace")
	}
	if r := d.Dispatch(input.NewAction("mermaid.run")); !r.IsOK() {
		t.Errorf("mermaid.run = %+v", r)
	}
}

func TestDispatchLogging(t *testing.T) {
	var buf bytes.Buffer
	d := dispatcher.NewWithDefaults()
	d.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	d.RegisterHandlerFunc("fail", func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.Errorf("nope")
	})

	d.Dispatch(input.NewAction("fail").WithSource(input.SourceCLI))

	out := buf.String()
	for _, want := range []string{"dispatch failed", "action=fail", "source=cli", "component=dispatcher", "error=nope"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
