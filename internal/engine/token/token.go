// Package token classifies markdown text the way an editor's syntax
// highlighter does, so commands can ask what kind of span the caret is in.
//
// Labels follow the CodeMirror markdown mode: "strong", "em", "comment"
// (inline code), "strikethrough", "link", "header header-N", plus "mark"
// for text wrapped in <mark ...></mark>. A character covered by nested
// spans carries a compound label such as "strong mark".
package token

import (
	"sort"
	"strings"
)

// Token is the classification of the character at a position.
// An empty Type means the character is unclassified.
type Token struct {
	Start int // Byte offset of the first character of the innermost span
	End   int // Byte offset after the innermost span
	Type  string
}

// IsNull reports whether the token carries no label.
func (t Token) IsNull() bool {
	return t.Type == ""
}

// Has reports whether tag occurs in the token's label. Labels can be
// compound, so this is substring containment rather than equality.
func (t Token) Has(tag string) bool {
	return tag != "" && t.Type != "" && strings.Contains(t.Type, tag)
}

// Span is a labelled byte range [Start, End).
type Span struct {
	Start int
	End   int
	Type  string
}

// Contains reports whether offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Classifier turns source text into labelled spans.
type Classifier interface {
	Classify(src []byte) []Span
}

// At returns the token for the character starting at offset.
// Offsets at or past the end of the text yield a null token.
func At(spans []Span, offset int) Token {
	tok := Token{Start: offset, End: offset}
	var labels []string
	innermost := -1
	for i, s := range spans {
		if !s.Contains(offset) {
			continue
		}
		if !containsLabel(labels, s.Type) {
			labels = append(labels, s.Type)
		}
		if innermost < 0 || s.End-s.Start < spans[innermost].End-spans[innermost].Start {
			innermost = i
		}
	}
	if innermost >= 0 {
		tok.Start = spans[innermost].Start
		tok.End = spans[innermost].End
		tok.Type = strings.Join(labels, " ")
	}
	return tok
}

// Sort orders spans by start, outer spans first.
func Sort(spans []Span) {
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End > spans[j].End
	})
}

func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}
