// Package inline toggles inline markdown markup around the caret or the
// current selections.
//
// With no selection the markers are inserted at the caret (or, when the
// caret already sits inside a span of the pair's token type, the closing
// marker is stepped over or added). With selections each selection is
// unwrapped when it is exactly prefix+body+suffix and wrapped otherwise,
// and all replacements are applied as one batch.
package inline

import (
	"regexp"
	"strings"

	"github.com/dshills/mdenhance/internal/engine/buffer"
	"github.com/dshills/mdenhance/internal/engine/cursor"
	"github.com/dshills/mdenhance/internal/engine/token"
)

// Editor is the editor surface the toggler works against.
type Editor interface {
	IsReadOnly() bool
	Cursor() buffer.Point
	SomethingSelected() bool
	Selections() []cursor.Selected
	TokenAt(p buffer.Point) token.Token
	TextRange(from, to buffer.Point) string

	// ReplaceSelection replaces every selection with text.
	ReplaceSelection(text string, collapse cursor.Collapse)
	// ReplaceSelections replaces selection i with texts[i].
	ReplaceSelections(texts []string, collapse cursor.Collapse)
	SetCursor(p buffer.Point)
}

// MarkerPair delimits an inline span. TokenType is the label the syntax
// highlighter gives to text inside the span; empty means none.
type MarkerPair struct {
	Prefix    string
	Suffix    string
	TokenType string
}

// Pattern returns the anchored expression matching a fully wrapped text.
// The body must be non-empty and, as with the editor's own regular
// expressions, may not contain a newline.
func (m MarkerPair) Pattern() *regexp.Regexp {
	return regexp.MustCompile("^" + regexp.QuoteMeta(m.Prefix) + ".+?" + regexp.QuoteMeta(m.Suffix) + "$")
}

// Wrap returns the replacement that turns text on. A trailing newline
// from a whole-line selection stays outside the suffix.
func (m MarkerPair) Wrap(text string) string {
	if strings.HasSuffix(text, "\n") {
		return m.Prefix + text[:len(text)-1] + m.Suffix + "\n"
	}
	return m.Prefix + text + m.Suffix
}

// Unwrap strips the prefix and suffix from a text matched by Pattern.
func (m MarkerPair) Unwrap(text string) string {
	return text[len(m.Prefix) : len(text)-len(m.Suffix)]
}

// Toggle applies pair to the editor's caret or selections.
// It never fails; a read-only editor is left untouched.
func Toggle(ed Editor, pair MarkerPair) {
	if ed.IsReadOnly() {
		return
	}
	if !ed.SomethingSelected() {
		toggleAtCursor(ed, pair)
		return
	}
	toggleSelections(ed, pair)
}

// toggleAtCursor handles the caret-only case.
//
// TODO: re-read the token after stepping over or inserting the suffix so a
// second invocation at the same spot leaves the span instead of opening a
// new pair.
func toggleAtCursor(ed Editor, pair MarkerPair) {
	cur := ed.Cursor()
	if ed.TokenAt(cur).Has(pair.TokenType) {
		to := cur.Advance(len(pair.Suffix))
		if ed.TextRange(cur, to) == pair.Suffix {
			ed.SetCursor(to)
		} else {
			ed.ReplaceSelection(pair.Suffix, cursor.CollapseEnd)
		}
		return
	}

	ed.ReplaceSelection(pair.Prefix+pair.Suffix, cursor.CollapseStart)
	ed.SetCursor(ed.Cursor().Advance(len(pair.Prefix)))
}

// toggleSelections handles one or more selections in a single batch.
func toggleSelections(ed Editor, pair MarkerPair) {
	re := pair.Pattern()
	selections := ed.Selections()
	replacements := make([]string, len(selections))
	for i, sel := range selections {
		if re.MatchString(sel.Text) {
			replacements[i] = pair.Unwrap(sel.Text)
		} else {
			replacements[i] = pair.Wrap(sel.Text)
		}
	}
	ed.ReplaceSelections(replacements, cursor.CollapseAround)
}
