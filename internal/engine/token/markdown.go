package token

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var (
	markOpenRe  = regexp.MustCompile(`(?i)^<mark(\s[^>]*)?>$`)
	markCloseRe = regexp.MustCompile(`(?i)^</mark\s*>$`)
	markTagRe   = regexp.MustCompile(`(?i)<mark(?:\s[^>]*)?>|</mark\s*>`)
)

// MarkdownClassifier labels markdown using the goldmark parser.
type MarkdownClassifier struct {
	md goldmark.Markdown
}

// NewMarkdownClassifier creates a classifier with GFM strikethrough enabled.
func NewMarkdownClassifier() *MarkdownClassifier {
	return &MarkdownClassifier{
		md: goldmark.New(goldmark.WithExtensions(extension.Strikethrough)),
	}
}

// Classify implements Classifier.
func (c *MarkdownClassifier) Classify(src []byte) []Span {
	doc := c.md.Parser().Parse(text.NewReader(src))

	var spans []Span
	var marks []int // start offsets of unclosed <mark> tags

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Paragraph:
			marks = marks[:0]
		case *ast.HTMLBlock:
			// Block HTML is not parsed inline, so pair the tags by scanning.
			marks = marks[:0]
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				for _, m := range markTagRe.FindAllIndex(src[seg.Start:seg.Stop], -1) {
					start, end := seg.Start+m[0], seg.Start+m[1]
					if src[start+1] != '/' {
						marks = append(marks, start)
					} else if len(marks) > 0 {
						open := marks[len(marks)-1]
						marks = marks[:len(marks)-1]
						spans = append(spans, Span{Start: open, End: end, Type: "mark"})
					}
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.Heading:
			marks = marks[:0]
			lines := node.Lines()
			if lines.Len() == 0 {
				break
			}
			spans = append(spans, Span{
				Start: lineStart(src, lines.At(0).Start),
				End:   lineEnd(src, lines.At(lines.Len()-1).Stop),
				Type:  fmt.Sprintf("header header-%d", node.Level),
			})
		case *ast.Emphasis:
			if start, end, ok := textExtent(node); ok {
				start, end = expandDelims(src, start, end, "*_", node.Level)
				label := "em"
				if node.Level >= 2 {
					label = "strong"
				}
				spans = append(spans, Span{Start: start, End: end, Type: label})
			}
		case *ast.CodeSpan:
			if start, end, ok := textExtent(node); ok {
				start, end = expandDelims(src, start, end, "`", len(src))
				spans = append(spans, Span{Start: start, End: end, Type: "comment"})
			}
			return ast.WalkSkipChildren, nil
		case *extast.Strikethrough:
			if start, end, ok := textExtent(node); ok {
				start, end = expandDelims(src, start, end, "~", 2)
				spans = append(spans, Span{Start: start, End: end, Type: "strikethrough"})
			}
		case *ast.Link:
			if start, end, ok := textExtent(node); ok {
				spans = append(spans, Span{Start: start, End: end, Type: "link"})
			}
		case *ast.RawHTML:
			segs := node.Segments
			if segs == nil || segs.Len() == 0 {
				break
			}
			var raw []byte
			for i := 0; i < segs.Len(); i++ {
				seg := segs.At(i)
				raw = append(raw, seg.Value(src)...)
			}
			raw = bytes.TrimSpace(raw)
			start, end := segs.At(0).Start, segs.At(segs.Len()-1).Stop
			switch {
			case markOpenRe.Match(raw):
				marks = append(marks, start)
			case markCloseRe.Match(raw) && len(marks) > 0:
				open := marks[len(marks)-1]
				marks = marks[:len(marks)-1]
				spans = append(spans, Span{Start: open, End: end, Type: "mark"})
			}
		}
		return ast.WalkContinue, nil
	})

	Sort(spans)
	return spans
}

// textExtent returns the byte range spanned by the text of n's descendants.
func textExtent(n ast.Node) (start, end int, ok bool) {
	start, end = -1, -1
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		var s, e int
		switch node := c.(type) {
		case *ast.Text:
			s, e = node.Segment.Start, node.Segment.Stop
		case *ast.RawHTML:
			if node.Segments == nil || node.Segments.Len() == 0 {
				return ast.WalkContinue, nil
			}
			s, e = node.Segments.At(0).Start, node.Segments.At(node.Segments.Len()-1).Stop
		default:
			return ast.WalkContinue, nil
		}
		if start < 0 || s < start {
			start = s
		}
		if e > end {
			end = e
		}
		return ast.WalkContinue, nil
	})
	return start, end, start >= 0 && end >= start
}

// expandDelims widens [start, end) over at most max delimiter bytes on each
// side so the span covers its markup as well as its content.
func expandDelims(src []byte, start, end int, delims string, max int) (int, int) {
	for n := 0; n < max && start > 0 && bytes.IndexByte([]byte(delims), src[start-1]) >= 0; n++ {
		start--
	}
	for n := 0; n < max && end < len(src) && bytes.IndexByte([]byte(delims), src[end]) >= 0; n++ {
		end++
	}
	return start, end
}

func lineStart(src []byte, offset int) int {
	if offset > len(src) {
		offset = len(src)
	}
	return bytes.LastIndexByte(src[:offset], '\n') + 1
}

func lineEnd(src []byte, offset int) int {
	if offset > len(src) {
		return len(src)
	}
	if i := bytes.IndexByte(src[offset:], '\n'); i >= 0 {
		return offset + i
	}
	return len(src)
}
