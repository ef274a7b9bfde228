package buffer

import (
	"fmt"
	"sync/atomic"
)

// ByteOffset represents a byte position in the buffer.
type ByteOffset = int

// Point represents a caret position between two characters.
// Both Line and Column are 0-indexed; Column is measured in bytes from the
// start of the line.
type Point struct {
	Line   int
	Column int
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Point) Compare(other Point) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Point) Before(other Point) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Point) After(other Point) bool {
	return p.Compare(other) > 0
}

// Advance returns the point moved n bytes along the same line.
// The result is not clamped to the line length.
func (p Point) Advance(n int) Point {
	return Point{Line: p.Line, Column: p.Column + n}
}

// EndPoint returns where a caret placed at start ends up after text is
// inserted there.
func EndPoint(start Point, text string) Point {
	end := start
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			end.Line++
			end.Column = 0
			continue
		}
		end.Column++
	}
	return end
}

// RevisionID uniquely identifies a buffer revision.
// Each modification to the buffer creates a new revision.
type RevisionID uint64

var revisionCounter uint64

// NewRevisionID generates a new unique revision ID.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}
