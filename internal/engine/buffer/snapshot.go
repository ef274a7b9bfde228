package buffer

// Snapshot is a read-only view of a buffer at one revision.
// It never changes, even when the buffer it came from is modified.
type Snapshot struct {
	text       string
	lineStarts []int
	revisionID RevisionID
}

// Text returns the full snapshot content.
func (s *Snapshot) Text() string {
	return s.text
}

// Bytes returns the snapshot content as a byte slice.
func (s *Snapshot) Bytes() []byte {
	return []byte(s.text)
}

// RevisionID returns the revision the snapshot was taken at.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revisionID
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() int {
	return len(s.lineStarts)
}

// LineText returns the text of a specific line (without newline).
func (s *Snapshot) LineText(line int) string {
	return lineText(s.text, s.lineStarts, line)
}

// TextRange returns the text covered by r.
func (s *Snapshot) TextRange(r PointRange) string {
	start := pointToOffset(s.text, s.lineStarts, r.Start)
	end := pointToOffset(s.text, s.lineStarts, r.End)
	if end < start {
		return ""
	}
	return s.text[start:end]
}

// OffsetToPoint converts a byte offset to a point.
func (s *Snapshot) OffsetToPoint(offset ByteOffset) Point {
	return offsetToPoint(s.text, s.lineStarts, offset)
}

// PointToOffset converts a point to a byte offset.
func (s *Snapshot) PointToOffset(p Point) ByteOffset {
	return pointToOffset(s.text, s.lineStarts, p)
}
