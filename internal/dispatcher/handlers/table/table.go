// Package table provides handlers that align and reformat the markdown
// table under the cursor.
package table

import (
	"errors"
	"strings"

	"github.com/dshills/mdenhance/internal/dispatcher/execctx"
	"github.com/dshills/mdenhance/internal/dispatcher/handler"
	"github.com/dshills/mdenhance/internal/engine/buffer"
	"github.com/dshills/mdenhance/internal/input"
	mdtable "github.com/dshills/mdenhance/internal/markdown/table"
)

// Action names.
const (
	ActionAlignLeft    = "alignColumnLeft"
	ActionAlignRight   = "alignColumnRight"
	ActionAlignCenter  = "alignColumnCenter"
	ActionAlignSlash   = "alignColumnSlash"
	ActionAlignColumns = "table.alignColumns"
	ActionFormat       = "table.format"
)

// presets maps the toolbar commands to their alignment markers.
var presets = map[string][2]string{
	ActionAlignLeft:   {":", "-"},
	ActionAlignRight:  {"-", ":"},
	ActionAlignCenter: {":", ":"},
	ActionAlignSlash:  {"-", "-"},
}

// Handler handles table actions.
type Handler struct{}

// NewHandler creates a new table handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Namespace returns the table namespace.
func (h *Handler) Namespace() string {
	return "table"
}

// Actions lists every action the handler accepts.
func (h *Handler) Actions() []string {
	return []string{ActionAlignLeft, ActionAlignRight, ActionAlignCenter, ActionAlignSlash, ActionAlignColumns, ActionFormat}
}

// CanHandle returns true if this handler can process the action.
func (h *Handler) CanHandle(actionName string) bool {
	switch actionName {
	case ActionAlignLeft, ActionAlignRight, ActionAlignCenter, ActionAlignSlash,
		ActionAlignColumns, ActionFormat:
		return true
	}
	return false
}

// HandleAction processes a table action.
func (h *Handler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}
	if ctx.IsReadOnly() && !ctx.DryRun {
		return handler.NoOpWithMessage("document is read-only")
	}

	switch action.Name {
	case ActionFormat:
		return h.apply(ctx, nil)
	case ActionAlignColumns:
		a, err := mdtable.ParseAlignment(action.Args.String(0), action.Args.String(1))
		if err != nil {
			return handler.Error(err)
		}
		return h.apply(ctx, &a)
	default:
		markers, ok := presets[action.Name]
		if !ok {
			return handler.Errorf("unknown table action: %s", action.Name)
		}
		a, _ := mdtable.ParseAlignment(markers[0], markers[1])
		return h.apply(ctx, &a)
	}
}

// apply reformats the table under the cursor, setting the cursor column's
// alignment first when align is non-nil.
func (h *Handler) apply(ctx *execctx.ExecutionContext, align *mdtable.Alignment) handler.Result {
	cur := ctx.Editor.Cursor()
	lines := strings.Split(ctx.Editor.Text(), "\n")

	tbl, err := mdtable.Find(lines, cur.Line)
	if errors.Is(err, mdtable.ErrNoTable) {
		return handler.NoOpWithMessage("cursor is not in a table")
	}
	if err != nil {
		return handler.Error(err)
	}

	col := min(mdtable.ColumnAt(lines[cur.Line], cur.Column), tbl.Columns()-1)
	if align != nil {
		tbl.SetAlignment(col, *align)
	}
	formatted := tbl.Format()
	text := strings.Join(formatted, "\n")

	if ctx.DryRun {
		return handler.NoOp().WithData("table", text)
	}

	r := buffer.NewPointRange(
		buffer.Point{Line: tbl.StartLine},
		buffer.Point{Line: tbl.EndLine, Column: len(lines[tbl.EndLine])},
	)
	res, err := ctx.Editor.Buffer().Replace(r, text)
	if err != nil {
		return handler.Error(err)
	}
	ctx.Editor.SetCursor(buffer.Point{
		Line:   cur.Line,
		Column: mdtable.CellStart(formatted[cur.Line-tbl.StartLine], col),
	})

	ctx.Logger.Debug("formatted table",
		"startLine", tbl.StartLine,
		"endLine", tbl.EndLine,
		"column", col)
	return handler.Success().WithEdits(res).WithData("column", col)
}
