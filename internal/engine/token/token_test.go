package token

import (
	"strings"
	"testing"
)

const markOpen = `<mark style="background: #ffd400">`

func classifyAt(t *testing.T, src string, offset int) Token {
	t.Helper()
	spans := NewMarkdownClassifier().Classify([]byte(src))
	return At(spans, offset)
}

func TestTokenHas(t *testing.T) {
	tests := []struct {
		tok  Token
		tag  string
		want bool
	}{
		{Token{Type: "mark"}, "mark", true},
		{Token{Type: "strong mark"}, "mark", true},
		{Token{Type: "mark spell-error"}, "mark", true},
		{Token{Type: "strong"}, "mark", false},
		{Token{}, "mark", false},
		{Token{Type: "mark"}, "", false},
	}
	for _, tt := range tests {
		if got := tt.tok.Has(tt.tag); got != tt.want {
			t.Errorf("Token{%q}.Has(%q) = %v, want %v", tt.tok.Type, tt.tag, got, tt.want)
		}
	}
}

func TestClassifyMark(t *testing.T) {
	src := "a " + markOpen + "hi</mark> b"
	inner := strings.Index(src, "hi")
	closing := strings.Index(src, "</mark>")
	after := closing + len("</mark>")

	if tok := classifyAt(t, src, inner); !tok.Has("mark") {
		t.Errorf("inside mark: got %q", tok.Type)
	}
	if tok := classifyAt(t, src, closing); !tok.Has("mark") {
		t.Errorf("at closing tag: got %q", tok.Type)
	}
	if tok := classifyAt(t, src, after); tok.Has("mark") {
		t.Errorf("after closing tag: got %q", tok.Type)
	}
	if tok := classifyAt(t, src, 0); !tok.IsNull() {
		t.Errorf("plain text: got %q", tok.Type)
	}
}

func TestClassifyUnclosedMark(t *testing.T) {
	src := markOpen + "typing"
	if tok := classifyAt(t, src, len(src)-1); tok.Has("mark") {
		t.Errorf("unclosed mark should not classify, got %q", tok.Type)
	}
}

func TestClassifyCompoundLabel(t *testing.T) {
	src := "**" + markOpen + "x</mark>**"
	tok := classifyAt(t, src, strings.Index(src, "x"))
	if tok.Type != "strong mark" {
		t.Errorf("Type = %q, want %q", tok.Type, "strong mark")
	}
}

func TestClassifyInline(t *testing.T) {
	tests := []struct {
		src    string
		offset int
		want   string
	}{
		{"**bold** rest", 0, "strong"},
		{"**bold** rest", 3, "strong"},
		{"**bold** rest", 9, ""},
		{"*em*", 1, "em"},
		{"a `code` b", 4, "comment"},
		{"~~gone~~", 3, "strikethrough"},
		{"# Title", 3, "header header-1"},
		{"[text](http://example.com)", 2, "link"},
	}
	for _, tt := range tests {
		tok := classifyAt(t, tt.src, tt.offset)
		if tok.Type != tt.want {
			t.Errorf("At(%q, %d) = %q, want %q", tt.src, tt.offset, tok.Type, tt.want)
		}
	}
}

func TestAtEndOfText(t *testing.T) {
	src := "**bold**"
	if tok := classifyAt(t, src, len(src)); !tok.IsNull() {
		t.Errorf("end of text should be null, got %q", tok.Type)
	}
}

func TestClassifyMarkSplitAcrossLines(t *testing.T) {
	// The opening tag's attributes continue on the next line, so the raw
	// HTML node carries one segment per line.
	src := "x <mark\nstyle=\"background: #ffd400\">hi</mark> y"

	if tok := classifyAt(t, src, strings.Index(src, "hi")); !tok.Has("mark") {
		t.Errorf("inside split mark: got %q", tok.Type)
	}
	if tok := classifyAt(t, src, strings.Index(src, "style")); !tok.Has("mark") {
		t.Errorf("inside split opening tag: got %q", tok.Type)
	}
	if tok := classifyAt(t, src, len(src)-1); tok.Has("mark") {
		t.Errorf("after mark: got %q", tok.Type)
	}
}

func TestClassifyMarkInHTMLBlock(t *testing.T) {
	src := "x\n\n" + markOpen + "\nhello</mark>\n\nafter"
	closing := strings.Index(src, "</mark>")

	tests := []struct {
		name   string
		offset int
		want   bool
	}{
		{"opening tag", strings.Index(src, "<mark"), true},
		{"body", strings.Index(src, "hello"), true},
		{"closing tag", closing, true},
		{"paragraph before", 0, false},
		{"paragraph after", strings.Index(src, "after"), false},
	}
	for _, tt := range tests {
		if got := classifyAt(t, src, tt.offset).Has("mark"); got != tt.want {
			t.Errorf("%s: Has(mark) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
