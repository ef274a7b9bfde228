// Package markdown provides handlers for inline markdown toggles.
//
// The seven highlight commands wrap or unwrap
// <mark style="background: COLOR">…</mark> around the caret or each
// selection:
//
//   - markdownHL1 #ffd400
//   - markdownHL2 #ff6666
//   - markdownHL3 #5fb236
//   - markdownHL4 #2ea8e5
//   - markdownHL5 #a28ae5
//   - markdownHL6 #e56eee
//   - markdownHL7 #f19837
//
// markdown.toggleInline toggles an arbitrary pair given as arguments
// (prefix, suffix and an optional token tag), e.g. "**" for bold.
package markdown

import (
	"errors"
	"fmt"

	"github.com/dshills/mdenhance/internal/dispatcher/execctx"
	"github.com/dshills/mdenhance/internal/dispatcher/handler"
	"github.com/dshills/mdenhance/internal/input"
	"github.com/dshills/mdenhance/internal/markdown/inline"
)

// Action names.
const (
	ActionHighlight1   = "markdownHL1"
	ActionHighlight2   = "markdownHL2"
	ActionHighlight3   = "markdownHL3"
	ActionHighlight4   = "markdownHL4"
	ActionHighlight5   = "markdownHL5"
	ActionHighlight6   = "markdownHL6"
	ActionHighlight7   = "markdownHL7"
	ActionToggleInline = "markdown.toggleInline"
)

// Argument keys for ActionToggleInline. Positional Strings are accepted
// in the same order.
const (
	ArgPrefix = "prefix"
	ArgSuffix = "suffix"
	ArgTag    = "tag"
)

// ErrMissingMarkers is returned when toggleInline gets neither a prefix
// nor a suffix. inline.Toggle itself accepts an empty pair and degrades to
// a no-op edit; the command rejects it because an empty pair from a user
// or script is always a mistake in the arguments.
var ErrMissingMarkers = errors.New("markdown: prefix or suffix required")

// HighlightActions lists the highlight commands in color order.
var HighlightActions = []string{
	ActionHighlight1, ActionHighlight2, ActionHighlight3, ActionHighlight4,
	ActionHighlight5, ActionHighlight6, ActionHighlight7,
}

// Handler handles inline toggle actions.
type Handler struct {
	colors map[string]string
}

// NewHandler creates a handler with the fixed highlight colors.
func NewHandler() *Handler {
	colors := make(map[string]string, len(HighlightActions))
	for i, name := range HighlightActions {
		colors[name] = inline.HighlightColors[i]
	}
	return &Handler{colors: colors}
}

// Namespace returns the markdown namespace.
func (h *Handler) Namespace() string {
	return "markdown"
}

// Actions lists every action the handler accepts.
func (h *Handler) Actions() []string {
	return append(append([]string(nil), HighlightActions...), ActionToggleInline)
}

// CanHandle returns true if this handler can process the action.
func (h *Handler) CanHandle(actionName string) bool {
	_, ok := h.colors[actionName]
	return ok || actionName == ActionToggleInline
}

// HandleAction toggles the requested pair. A read-only document yields a
// no-op without touching the editor.
func (h *Handler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}
	if ctx.IsReadOnly() {
		return handler.NoOpWithMessage("document is read-only")
	}

	if color, ok := h.colors[action.Name]; ok {
		return h.toggle(ctx, inline.HighlightPair(color))
	}
	if action.Name == ActionToggleInline {
		pair, err := pairFromArgs(action.Args)
		if err != nil {
			return handler.Error(err)
		}
		return h.toggle(ctx, pair)
	}
	return handler.Errorf("unknown markdown action: %s", action.Name)
}

func (h *Handler) toggle(ctx *execctx.ExecutionContext, pair inline.MarkerPair) handler.Result {
	before := ctx.Editor.Buffer().RevisionID()
	inline.Toggle(ctx.Editor, pair)
	if err := ctx.Editor.Err(); err != nil {
		return handler.Error(fmt.Errorf("toggle %q: %w", pair.Prefix, err))
	}

	ctx.Logger.Debug("toggled inline markup",
		"prefix", pair.Prefix,
		"selections", len(ctx.Editor.AllSelections()))
	if ctx.Editor.Buffer().RevisionID() == before {
		return handler.Success().WithMessage("cursor moved")
	}
	return handler.Success()
}

// pairFromArgs reads the marker pair from named args, falling back to
// positional strings. It fails with ErrMissingMarkers when both markers
// are empty.
func pairFromArgs(args input.ActionArgs) (inline.MarkerPair, error) {
	pair := inline.MarkerPair{
		Prefix:    args.GetString(ArgPrefix),
		Suffix:    args.GetString(ArgSuffix),
		TokenType: args.GetString(ArgTag),
	}
	if pair.Prefix == "" && pair.Suffix == "" {
		pair.Prefix, pair.Suffix, pair.TokenType = args.String(0), args.String(1), args.String(2)
	}
	if pair.Prefix == "" && pair.Suffix == "" {
		return pair, ErrMissingMarkers
	}
	return pair, nil
}
