package cursor

import (
	"fmt"

	"github.com/dshills/mdenhance/internal/engine/buffer"
)

// Point is an alias for buffer.Point for convenience.
type Point = buffer.Point

// Selection represents a range of selected text.
type Selection struct {
	Anchor Point // Where selection started
	Head   Point // Current cursor position
}

// NewSelection creates a selection from anchor to head.
func NewSelection(anchor, head Point) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// NewCursorSelection creates a selection representing just a caret.
func NewCursorSelection(p Point) Selection {
	return Selection{Anchor: p, Head: p}
}

// NewRangeSelection creates a forward selection covering r.
func NewRangeSelection(r buffer.PointRange) Selection {
	return Selection{Anchor: r.Start, Head: r.End}
}

// IsEmpty returns true if the selection has no extent.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// Range returns the selection as an ordered range.
func (s Selection) Range() buffer.PointRange {
	return buffer.NewPointRange(s.Anchor, s.Head)
}

// Start returns the lower bound of the selection.
func (s Selection) Start() Point {
	return s.Range().Start
}

// End returns the upper bound of the selection.
func (s Selection) End() Point {
	return s.Range().End
}

// IsBackward returns true if the head is before the anchor.
func (s Selection) IsBackward() bool {
	return s.Head.Before(s.Anchor)
}

// Overlaps returns true if this selection overlaps with another.
// A caret touching the edge of another selection counts as overlapping.
func (s Selection) Overlaps(other Selection) bool {
	if s.IsEmpty() || other.IsEmpty() {
		return !s.Start().After(other.End()) && !other.Start().After(s.End())
	}
	return s.Start().Before(other.End()) && other.Start().Before(s.End())
}

// Merge returns a forward selection covering both selections.
func (s Selection) Merge(other Selection) Selection {
	start, end := s.Start(), s.End()
	if other.Start().Before(start) {
		start = other.Start()
	}
	if other.End().After(end) {
		end = other.End()
	}
	return Selection{Anchor: start, Head: end}
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Cursor%s", s.Head)
	}
	dir := "→"
	if s.IsBackward() {
		dir = "←"
	}
	return fmt.Sprintf("Selection(%s%s%s)", s.Anchor, dir, s.Head)
}

// Selected pairs a selection range with the literal text it covered when
// it was read. The text goes stale as soon as the buffer changes.
type Selected struct {
	Range buffer.PointRange
	Text  string
}

// Collapse says where the selection ends up after its text is replaced.
type Collapse uint8

const (
	// CollapseEnd leaves a caret after the inserted text.
	CollapseEnd Collapse = iota
	// CollapseStart leaves a caret before the inserted text.
	CollapseStart
	// CollapseAround selects the inserted text.
	CollapseAround
)

// String returns the collapse mode name.
func (c Collapse) String() string {
	switch c {
	case CollapseStart:
		return "start"
	case CollapseAround:
		return "around"
	default:
		return "end"
	}
}

// ParseCollapse maps "start", "around" and "end" to a Collapse.
// Unknown names map to CollapseEnd.
func ParseCollapse(s string) Collapse {
	switch s {
	case "start":
		return CollapseStart
	case "around":
		return CollapseAround
	default:
		return CollapseEnd
	}
}

// After returns the selection covering r under collapse mode c.
func (c Collapse) After(r buffer.PointRange) Selection {
	switch c {
	case CollapseStart:
		return NewCursorSelection(r.Start)
	case CollapseAround:
		return NewRangeSelection(r)
	default:
		return NewCursorSelection(r.End)
	}
}
