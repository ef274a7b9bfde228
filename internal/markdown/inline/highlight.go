package inline

import "fmt"

// MarkTokenType is the highlighter label for <mark> spans.
const MarkTokenType = "mark"

// HighlightColors are the background colors of the highlight commands,
// in command order.
var HighlightColors = []string{
	"#ffd400",
	"#ff6666",
	"#5fb236",
	"#2ea8e5",
	"#a28ae5",
	"#e56eee",
	"#f19837",
}

// HighlightPair returns the <mark> marker pair for a background color.
func HighlightPair(color string) MarkerPair {
	return MarkerPair{
		Prefix:    fmt.Sprintf(`<mark style="background: %s">`, color),
		Suffix:    "</mark>",
		TokenType: MarkTokenType,
	}
}

// Highlight toggles a colored <mark> span.
func Highlight(ed Editor, color string) {
	Toggle(ed, HighlightPair(color))
}
