// Package mermaid provides handlers that fold and unfold mermaid blocks.
// Folding is view state; the document text is never modified.
package mermaid

import (
	"strings"

	"github.com/dshills/mdenhance/internal/dispatcher/execctx"
	"github.com/dshills/mdenhance/internal/dispatcher/handler"
	"github.com/dshills/mdenhance/internal/input"
	"github.com/dshills/mdenhance/internal/markdown/mermaid"
)

// Action names.
const (
	ActionFoldAll    = "mermaid.foldAll"
	ActionUnfoldAll  = "mermaid.unfoldAll"
	ActionToggleFold = "mermaid.toggleFold"
)

// Handler handles mermaid folding actions.
type Handler struct {
	folder *mermaid.Folder
}

// NewHandler creates a handler with its own fold state.
func NewHandler() *Handler {
	return &Handler{folder: mermaid.NewFolder()}
}

// Folder exposes the fold state for rendering.
func (h *Handler) Folder() *mermaid.Folder {
	return h.folder
}

// Namespace returns the mermaid namespace.
func (h *Handler) Namespace() string {
	return "mermaid"
}

// Actions lists every action the handler accepts.
func (h *Handler) Actions() []string {
	return []string{ActionFoldAll, ActionUnfoldAll, ActionToggleFold}
}

// CanHandle returns true if this handler can process the action.
func (h *Handler) CanHandle(actionName string) bool {
	switch actionName {
	case ActionFoldAll, ActionUnfoldAll, ActionToggleFold:
		return true
	}
	return false
}

// HandleAction processes a folding action. Works on read-only documents.
func (h *Handler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}

	blocks := mermaid.Scan(strings.Split(ctx.Editor.Text(), "\n"))
	h.folder.Prune(blocks)

	var changed int
	switch action.Name {
	case ActionFoldAll:
		changed = h.folder.FoldAll(blocks)
	case ActionUnfoldAll:
		changed = h.folder.UnfoldAll()
	case ActionToggleFold:
		b, ok := mermaid.BlockAt(blocks, ctx.Editor.Cursor().Line)
		if !ok {
			return handler.NoOpWithMessage("cursor is not in a mermaid block")
		}
		h.folder.Toggle(b)
		changed = 1
	default:
		return handler.Errorf("unknown mermaid action: %s", action.Name)
	}

	ctx.Logger.Debug("mermaid folds updated", "blocks", len(blocks), "changed", changed, "folded", h.folder.Count())
	if changed == 0 {
		return handler.NoOp().WithData("folded", h.folder.Count())
	}
	return handler.Success().WithData("folded", h.folder.Count())
}
