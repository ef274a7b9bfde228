package handler_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/mdenhance/internal/dispatcher/execctx"
	"github.com/dshills/mdenhance/internal/dispatcher/handler"
	"github.com/dshills/mdenhance/internal/input"
)

func TestHandlerFunc(t *testing.T) {
	called := false
	h := handler.NewHandlerFuncWithPriority(func(input.Action, *execctx.ExecutionContext) handler.Result {
		called = true
		return handler.Success()
	}, 7)

	if !h.CanHandle("anything") || h.Priority() != 7 {
		t.Error("unexpected HandlerFunc metadata")
	}
	if r := h.Handle(input.NewAction("x"), execctx.New()); !r.IsOK() || !called {
		t.Errorf("Handle() = %+v, called = %v", r, called)
	}

	if r := handler.NewHandlerFunc(nil).Handle(input.NewAction("x"), execctx.New()); !r.IsError() {
		t.Error("nil function should yield an error result")
	}
}

func TestBaseNamespaceHandler(t *testing.T) {
	h := handler.NewBaseNamespaceHandler("mermaid")
	h.Register("mermaid.foldAll", func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithMessage("folded")
	})
	h.Register("mermaid.unfoldAll", func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.NoOp()
	})

	if h.Namespace() != "mermaid" {
		t.Errorf("Namespace() = %q", h.Namespace())
	}
	if diff := cmp.Diff([]string{"mermaid.foldAll", "mermaid.unfoldAll"}, h.Actions()); diff != "" {
		t.Errorf("Actions() mismatch (-want +got):\n%s", diff)
	}

	adapter := handler.NewNamespaceAdapter(h)
	if !adapter.CanHandle("mermaid.foldAll") || adapter.CanHandle("mermaid.other") {
		t.Error("adapter CanHandle mismatch")
	}
	if r := adapter.Handle(input.NewAction("mermaid.foldAll"), execctx.New()); r.Message != "folded" {
		t.Errorf("Handle() = %+v", r)
	}
	if r := h.HandleAction(input.NewAction("mermaid.other"), execctx.New()); !r.IsError() {
		t.Error("unknown action should be an error")
	}
}

func TestResultBuilders(t *testing.T) {
	base := handler.Success().WithData("folded", 2)
	derived := base.WithData("blocks", 3).WithMessage("done")

	if _, ok := base.GetData("blocks"); ok {
		t.Error("WithData mutated the original result")
	}
	if derived.GetDataInt("folded") != 2 || derived.GetDataInt("blocks") != 3 || derived.Message != "done" {
		t.Errorf("derived = %+v", derived)
	}

	errBoom := errors.New("boom")
	if r := handler.Error(errBoom); !r.IsError() || !errors.Is(r.Error, errBoom) {
		t.Errorf("Error() = %+v", r)
	}
	if r := handler.Errorf("wrap: %w", errBoom); !errors.Is(r.Error, errBoom) {
		t.Errorf("Errorf() should wrap, got %v", r.Error)
	}
}

func TestResultStatusString(t *testing.T) {
	tests := map[handler.ResultStatus]string{
		handler.StatusOK:         "ok",
		handler.StatusNoOp:       "no-op",
		handler.StatusError:      "error",
		handler.StatusCancelled:  "cancelled",
		handler.ResultStatus(42): "unknown",
	}
	for status, want := range tests {
		if got := status.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", status, got, want)
		}
	}
}
