// Package editor ties a buffer, a cursor set and a token classifier into
// the editor surface that commands operate on.
//
// Replacement semantics follow CodeMirror: ReplaceSelection writes the same
// text over every selection, ReplaceSelections writes one text per
// selection, and each call is applied as a single buffer revision.
package editor

import (
	"errors"
	"sync"

	"github.com/dshills/mdenhance/internal/engine/buffer"
	"github.com/dshills/mdenhance/internal/engine/cursor"
	"github.com/dshills/mdenhance/internal/engine/token"
)

// ErrSelectionCount is recorded when a replacement list does not have one
// text per selection.
var ErrSelectionCount = errors.New("editor: replacement count does not match selections")

// Editor is a document being edited.
type Editor struct {
	mu         sync.Mutex
	buf        *buffer.Buffer
	cursors    *cursor.CursorSet
	classifier token.Classifier

	spans    []token.Span
	spansRev buffer.RevisionID

	lastErr error
}

// Option configures an Editor.
type Option func(*Editor)

// WithClassifier overrides the markdown classifier.
func WithClassifier(c token.Classifier) Option {
	return func(e *Editor) {
		e.classifier = c
	}
}

// New creates an editor over buf with a caret at the start of the document.
func New(buf *buffer.Buffer, opts ...Option) *Editor {
	e := &Editor{
		buf:        buf,
		cursors:    cursor.NewCursorSet(cursor.Selection{}),
		classifier: token.NewMarkdownClassifier(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewFromString creates an editor over a new buffer holding s.
func NewFromString(s string, opts ...Option) *Editor {
	return New(buffer.NewBufferFromString(s), opts...)
}

// Buffer returns the underlying buffer.
func (e *Editor) Buffer() *buffer.Buffer {
	return e.buf
}

// Text returns the document text.
func (e *Editor) Text() string {
	return e.buf.Text()
}

// IsReadOnly reports whether the document rejects edits.
func (e *Editor) IsReadOnly() bool {
	return e.buf.IsReadOnly()
}

// Err returns the error of the last failed mutation, if any, and clears it.
// Mutations report failure here because the editor surface itself is
// infallible.
func (e *Editor) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.lastErr
	e.lastErr = nil
	return err
}

// Cursor returns the head of the primary selection.
func (e *Editor) Cursor() buffer.Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursors.Primary().Head
}

// SetCursor collapses all selections to a single caret at p.
func (e *Editor) SetCursor(p buffer.Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursors.Set(cursor.NewCursorSelection(e.buf.ClampPoint(p)))
}

// SetSelections replaces the selection set.
func (e *Editor) SetSelections(sels ...cursor.Selection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	clamped := make([]cursor.Selection, len(sels))
	for i, sel := range sels {
		clamped[i] = cursor.NewSelection(e.buf.ClampPoint(sel.Anchor), e.buf.ClampPoint(sel.Head))
	}
	e.cursors.SetAll(clamped)
}

// AllSelections returns the current selections in document order.
func (e *Editor) AllSelections() []cursor.Selection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursors.All()
}

// SomethingSelected reports whether any selection has extent.
func (e *Editor) SomethingSelected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursors.HasSelection()
}

// Selections returns every selection with its current text.
func (e *Editor) Selections() []cursor.Selected {
	e.mu.Lock()
	defer e.mu.Unlock()
	sels := e.cursors.All()
	out := make([]cursor.Selected, len(sels))
	for i, sel := range sels {
		r := sel.Range()
		out[i] = cursor.Selected{Range: r, Text: e.buf.TextRange(r)}
	}
	return out
}

// TextRange returns the document text between two points.
func (e *Editor) TextRange(from, to buffer.Point) string {
	return e.buf.TextRange(buffer.NewPointRange(from, to))
}

// TokenAt classifies the character at p. Spans are recomputed only when
// the buffer revision changes.
func (e *Editor) TokenAt(p buffer.Point) token.Token {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := e.buf.Snapshot()
	if e.spans == nil || e.spansRev != snap.RevisionID() {
		e.spans = e.classifier.Classify(snap.Bytes())
		if e.spans == nil {
			e.spans = []token.Span{}
		}
		e.spansRev = snap.RevisionID()
	}
	return token.At(e.spans, snap.PointToOffset(p))
}

// ReplaceSelection replaces every selection with text.
func (e *Editor) ReplaceSelection(text string, collapse cursor.Collapse) {
	e.mu.Lock()
	n := e.cursors.Count()
	e.mu.Unlock()

	texts := make([]string, n)
	for i := range texts {
		texts[i] = text
	}
	e.ReplaceSelections(texts, collapse)
}

// ReplaceSelections replaces selection i with texts[i]. A list whose length
// differs from the selection count is rejected with ErrSelectionCount.
func (e *Editor) ReplaceSelections(texts []string, collapse cursor.Collapse) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sels := e.cursors.All()
	if len(texts) != len(sels) {
		e.lastErr = ErrSelectionCount
		return
	}
	edits := make([]buffer.Edit, len(sels))
	for i, sel := range sels {
		edits[i] = buffer.NewEdit(sel.Range(), texts[i])
	}

	results, err := e.buf.ApplyEdits(edits)
	if err != nil {
		e.lastErr = err
		return
	}

	next := make([]cursor.Selection, 0, len(sels))
	for _, res := range results {
		next = append(next, collapse.After(res.NewRange))
	}
	e.cursors.SetAll(next)
}
