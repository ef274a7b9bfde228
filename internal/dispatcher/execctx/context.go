// Package execctx provides the execution context for action handlers.
package execctx

import (
	"io"
	"log/slog"

	"github.com/dshills/mdenhance/internal/engine/buffer"
	"github.com/dshills/mdenhance/internal/engine/cursor"
	"github.com/dshills/mdenhance/internal/markdown/inline"
)

// EditorInterface abstracts the document editor for handlers. It is the
// toggler's surface plus whole-buffer access for block level commands.
type EditorInterface interface {
	inline.Editor

	Text() string
	Buffer() *buffer.Buffer
	AllSelections() []cursor.Selection
	SetSelections(sels ...cursor.Selection)

	// Err returns and clears the last failed mutation, if any.
	Err() error
}

// ExecutionContext provides handlers with what they need to execute.
type ExecutionContext struct {
	// Editor is the document being edited.
	Editor EditorInterface

	// FilePath is the document path, empty for unsaved text.
	FilePath string

	// Logger is scoped to the dispatch; never nil after New.
	Logger *slog.Logger

	// DryRun asks handlers to report what they would do without editing.
	DryRun bool

	// Data holds handler-specific context data.
	Data map[string]any
}

// New creates a new execution context.
func New() *ExecutionContext {
	return &ExecutionContext{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Data:   make(map[string]any),
	}
}

// WithEditor returns the context with the editor set.
func (ctx *ExecutionContext) WithEditor(ed EditorInterface) *ExecutionContext {
	ctx.Editor = ed
	return ctx
}

// WithFilePath returns the context with the file path set.
func (ctx *ExecutionContext) WithFilePath(path string) *ExecutionContext {
	ctx.FilePath = path
	return ctx
}

// WithLogger returns the context with the logger set. A nil logger is ignored.
func (ctx *ExecutionContext) WithLogger(logger *slog.Logger) *ExecutionContext {
	if logger != nil {
		ctx.Logger = logger
	}
	return ctx
}

// WithDryRun returns the context with dry run mode set.
func (ctx *ExecutionContext) WithDryRun(dryRun bool) *ExecutionContext {
	ctx.DryRun = dryRun
	return ctx
}

// HasSelection returns true if any selection is non-empty.
func (ctx *ExecutionContext) HasSelection() bool {
	return ctx.Editor != nil && ctx.Editor.SomethingSelected()
}

// IsReadOnly returns true if the document is read-only.
func (ctx *ExecutionContext) IsReadOnly() bool {
	return ctx.Editor != nil && ctx.Editor.IsReadOnly()
}

// SetData sets a context data value.
func (ctx *ExecutionContext) SetData(key string, value any) {
	if ctx.Data == nil {
		ctx.Data = make(map[string]any)
	}
	ctx.Data[key] = value
}

// GetData retrieves a context data value.
func (ctx *ExecutionContext) GetData(key string) (any, bool) {
	if ctx.Data == nil {
		return nil, false
	}
	v, ok := ctx.Data[key]
	return v, ok
}

// GetDataString retrieves a string value from context data.
func (ctx *ExecutionContext) GetDataString(key string) string {
	if v, ok := ctx.GetData(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Validate checks that the context has all required components.
func (ctx *ExecutionContext) Validate() error {
	if ctx.Editor == nil {
		return ErrMissingEditor
	}
	return nil
}

// ValidateForEdit checks that the context is valid for editing operations.
func (ctx *ExecutionContext) ValidateForEdit() error {
	if err := ctx.Validate(); err != nil {
		return err
	}
	if ctx.IsReadOnly() {
		return ErrReadOnly
	}
	return nil
}
