package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/mdenhance/internal/engine/buffer"
	"github.com/dshills/mdenhance/internal/engine/cursor"
)

// ParsePoint parses a 1-based "LINE:COL" position into a 0-based point.
// A bare "LINE" means column 1.
func ParsePoint(s string) (buffer.Point, error) {
	lineStr, colStr, hasCol := strings.Cut(strings.TrimSpace(s), ":")
	line, err := strconv.Atoi(lineStr)
	if err != nil || line < 1 {
		return buffer.Point{}, fmt.Errorf("invalid position %q: line must be a positive number", s)
	}
	col := 1
	if hasCol {
		col, err = strconv.Atoi(colStr)
		if err != nil || col < 1 {
			return buffer.Point{}, fmt.Errorf("invalid position %q: column must be a positive number", s)
		}
	}
	return buffer.Point{Line: line - 1, Column: col - 1}, nil
}

// ParseSelection parses "FROM-TO" where both ends are ParsePoint
// positions. FROM is the anchor and TO the head, so a backward selection
// is written with TO before FROM. A single position is a caret.
func ParseSelection(s string) (cursor.Selection, error) {
	from, to, isRange := strings.Cut(s, "-")
	anchor, err := ParsePoint(from)
	if err != nil {
		return cursor.Selection{}, err
	}
	if !isRange {
		return cursor.NewCursorSelection(anchor), nil
	}
	head, err := ParsePoint(to)
	if err != nil {
		return cursor.Selection{}, err
	}
	return cursor.NewSelection(anchor, head), nil
}
