package buffer

import (
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
)

// Errors returned by buffer operations.
var (
	ErrReadOnly     = errors.New("buffer is read-only")
	ErrRangeInvalid = errors.New("invalid range")
	ErrEditsOverlap = errors.New("edits overlap")
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Buffer is a mutable text document addressed by line/column points.
// All methods are thread-safe.
type Buffer struct {
	mu            sync.RWMutex
	text          string
	lineStarts    []int
	revisionID    RevisionID
	lineEnding    LineEnding
	lineEndingSet bool
	readOnly      bool
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		revisionID: NewRevisionID(),
		lineEnding: LineEndingLF,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.reindex()
	return b
}

// NewBufferFromString creates a buffer with initial content.
// Unless a line ending was configured, the dominant one in s is remembered
// for Encoded.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	if !b.lineEndingSet {
		b.lineEnding = DetectLineEnding(s)
	}
	b.text = normalizeLineEndings(s)
	b.reindex()
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	// Read everything first so CRLF pairs are never split across reads.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data), opts...), nil
}

// normalizeLineEndings converts CRLF and CR to LF.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// reindex rebuilds the line start table. Caller must hold the write lock.
func (b *Buffer) reindex() {
	starts := b.lineStarts[:0]
	starts = append(starts, 0)
	for i := 0; i < len(b.text); i++ {
		if b.text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	b.lineStarts = starts
}

// Read Operations

// Text returns the full buffer content with LF line endings.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// Encoded returns the buffer content using the buffer's line ending.
func (b *Buffer) Encoded() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.lineEnding == LineEndingLF {
		return b.text
	}
	return strings.ReplaceAll(b.text, "\n", b.lineEnding.Sequence())
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.text)
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lineStarts)
}

// LineText returns the text of a specific line (without newline).
// Out of range lines return "".
func (b *Buffer) LineText(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return lineText(b.text, b.lineStarts, line)
}

// LineLen returns the length of a specific line in bytes (without newline).
func (b *Buffer) LineLen(line int) int {
	return len(b.LineText(line))
}

// TextRange returns the text covered by r after clamping both endpoints.
func (b *Buffer) TextRange(r PointRange) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	start := pointToOffset(b.text, b.lineStarts, r.Start)
	end := pointToOffset(b.text, b.lineStarts, r.End)
	if end < start {
		return ""
	}
	return b.text[start:end]
}

// OffsetToPoint converts a byte offset to a point, clamping to the buffer.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return offsetToPoint(b.text, b.lineStarts, offset)
}

// PointToOffset converts a point to a byte offset, clamping to the buffer.
func (b *Buffer) PointToOffset(p Point) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return pointToOffset(b.text, b.lineStarts, p)
}

// ClampPoint returns the nearest valid point.
func (b *Buffer) ClampPoint(p Point) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return offsetToPoint(b.text, b.lineStarts, pointToOffset(b.text, b.lineStarts, p))
}

// RevisionID returns the current revision.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// LineEnding returns the line ending restored by Encoded.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// IsReadOnly reports whether writes are rejected.
func (b *Buffer) IsReadOnly() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.readOnly
}

// SetReadOnly toggles the read-only flag.
func (b *Buffer) SetReadOnly(readOnly bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.readOnly = readOnly
}

// Write Operations

// Insert inserts text at p.
func (b *Buffer) Insert(p Point, text string) (EditResult, error) {
	return b.Replace(PointRange{Start: p, End: p}, text)
}

// Delete removes the text covered by r.
func (b *Buffer) Delete(r PointRange) (EditResult, error) {
	return b.Replace(r, "")
}

// Replace replaces the text covered by r.
func (b *Buffer) Replace(r PointRange, text string) (EditResult, error) {
	results, err := b.ApplyEdits([]Edit{{Range: r, NewText: text}})
	if err != nil {
		return EditResult{}, err
	}
	return results[0], nil
}

// ApplyEdits applies a batch of edits atomically as a single revision.
// Ranges refer to the document before the batch and must not overlap.
// Results are returned in the order of the input edits, with NewRange
// expressed in the document after the batch.
func (b *Buffer) ApplyEdits(edits []Edit) ([]EditResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.readOnly {
		return nil, ErrReadOnly
	}
	if len(edits) == 0 {
		return nil, nil
	}

	type resolved struct {
		index      int
		start, end int
		text       string
	}
	items := make([]resolved, len(edits))
	for i, e := range edits {
		if !e.Range.IsValid() {
			return nil, ErrRangeInvalid
		}
		items[i] = resolved{
			index: i,
			start: pointToOffset(b.text, b.lineStarts, e.Range.Start),
			end:   pointToOffset(b.text, b.lineStarts, e.Range.End),
			text:  normalizeLineEndings(e.NewText),
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].start < items[j].start
	})
	for i := 1; i < len(items); i++ {
		if items[i].start < items[i-1].end {
			return nil, ErrEditsOverlap
		}
	}

	var sb strings.Builder
	sb.Grow(len(b.text))
	oldText := b.text
	oldStarts := b.lineStarts
	results := make([]EditResult, len(edits))
	newOffsets := make([][2]int, len(edits))

	prev, delta := 0, 0
	for _, it := range items {
		sb.WriteString(oldText[prev:it.start])
		sb.WriteString(it.text)
		prev = it.end

		newStart := it.start + delta
		newOffsets[it.index] = [2]int{newStart, newStart + len(it.text)}
		results[it.index] = EditResult{
			OldRange: PointRange{
				Start: offsetToPoint(oldText, oldStarts, it.start),
				End:   offsetToPoint(oldText, oldStarts, it.end),
			},
			OldText: oldText[it.start:it.end],
			NewText: it.text,
			Delta:   len(it.text) - (it.end - it.start),
		}
		delta += len(it.text) - (it.end - it.start)
	}
	sb.WriteString(oldText[prev:])

	b.text = sb.String()
	b.lineStarts = nil
	b.reindex()
	b.revisionID = NewRevisionID()

	for i := range results {
		results[i].NewRange = PointRange{
			Start: offsetToPoint(b.text, b.lineStarts, newOffsets[i][0]),
			End:   offsetToPoint(b.text, b.lineStarts, newOffsets[i][1]),
		}
	}
	return results, nil
}

// SetText replaces the whole document.
func (b *Buffer) SetText(s string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.readOnly {
		return ErrReadOnly
	}
	b.text = normalizeLineEndings(s)
	b.reindex()
	b.revisionID = NewRevisionID()
	return nil
}

// Snapshot returns an immutable view of the current content.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	starts := make([]int, len(b.lineStarts))
	copy(starts, b.lineStarts)
	return &Snapshot{
		text:       b.text,
		lineStarts: starts,
		revisionID: b.revisionID,
	}
}

// coordinate helpers shared with Snapshot

func lineText(text string, starts []int, line int) string {
	if line < 0 || line >= len(starts) {
		return ""
	}
	end := len(text)
	if line+1 < len(starts) {
		end = starts[line+1] - 1
	}
	return text[starts[line]:end]
}

func pointToOffset(text string, starts []int, p Point) int {
	if p.Line < 0 {
		return 0
	}
	if p.Line >= len(starts) {
		return len(text)
	}
	lineLen := len(lineText(text, starts, p.Line))
	col := p.Column
	if col < 0 {
		col = 0
	} else if col > lineLen {
		col = lineLen
	}
	return starts[p.Line] + col
}

func offsetToPoint(text string, starts []int, offset int) Point {
	if offset <= 0 {
		return Point{}
	}
	if offset > len(text) {
		offset = len(text)
	}
	line := sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
	return Point{Line: line, Column: offset - starts[line]}
}
