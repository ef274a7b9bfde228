// Package table formats GitHub-flavoured markdown tables.
//
// A table is a run of non-blank lines containing pipes whose second line
// is a delimiter row. Formatting pads every cell to its column's display
// width (wide runes count double) and rewrites the delimiter row from each
// column's alignment.
package table

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

var (
	// ErrNoTable is returned when the given line is not inside a table.
	ErrNoTable = errors.New("table: no table at line")
	// ErrBadAlignment is returned for alignment markers other than ':' and '-'.
	ErrBadAlignment = errors.New("table: alignment markers must be ':' or '-'")
)

var delimiterCellRe = regexp.MustCompile(`^\s*:?-+:?\s*$`)

// minDelimiterWidth keeps ":-:" representable.
const minDelimiterWidth = 3

// Alignment is a column's horizontal alignment.
type Alignment uint8

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignRight
	AlignCenter
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	case AlignCenter:
		return "center"
	default:
		return "none"
	}
}

// ParseAlignment maps the two delimiter end markers to an alignment:
// [':','-'] left, ['-',':'] right, [':',':'] center, ['-','-'] none.
func ParseAlignment(left, right string) (Alignment, error) {
	if (left != ":" && left != "-") || (right != ":" && right != "-") {
		return AlignNone, fmt.Errorf("%w: got %q %q", ErrBadAlignment, left, right)
	}
	switch {
	case left == ":" && right == ":":
		return AlignCenter, nil
	case left == ":":
		return AlignLeft, nil
	case right == ":":
		return AlignRight, nil
	}
	return AlignNone, nil
}

// delimiter renders the delimiter cell for a column of the given width.
func (a Alignment) delimiter(width int) string {
	left, right := "-", "-"
	switch a {
	case AlignLeft:
		left = ":"
	case AlignRight:
		right = ":"
	case AlignCenter:
		left, right = ":", ":"
	}
	return left + strings.Repeat("-", width-2) + right
}

func parseDelimiterCell(cell string) Alignment {
	cell = strings.TrimSpace(cell)
	left, right := strings.HasPrefix(cell, ":"), strings.HasSuffix(cell, ":")
	switch {
	case left && right:
		return AlignCenter
	case left:
		return AlignLeft
	case right:
		return AlignRight
	}
	return AlignNone
}

// Table is a parsed table and its position in the document.
type Table struct {
	// StartLine and EndLine bound the table's lines, inclusive.
	StartLine int
	EndLine   int

	Header []string
	Aligns []Alignment
	Rows   [][]string
}

// Find locates the table containing line.
func Find(lines []string, line int) (*Table, error) {
	if line < 0 || line >= len(lines) || !isRowCandidate(lines[line]) {
		return nil, fmt.Errorf("%w %d", ErrNoTable, line)
	}

	start, end := line, line
	for start > 0 && isRowCandidate(lines[start-1]) {
		start--
	}
	for end+1 < len(lines) && isRowCandidate(lines[end+1]) {
		end++
	}
	if end-start < 1 || !isDelimiterRow(lines[start+1]) {
		return nil, fmt.Errorf("%w %d", ErrNoTable, line)
	}

	t := &Table{
		StartLine: start,
		EndLine:   end,
		Header:    SplitRow(lines[start]),
	}
	for _, cell := range SplitRow(lines[start+1]) {
		t.Aligns = append(t.Aligns, parseDelimiterCell(cell))
	}
	for _, l := range lines[start+2 : end+1] {
		t.Rows = append(t.Rows, SplitRow(l))
	}
	return t, nil
}

func isRowCandidate(line string) bool {
	return strings.TrimSpace(line) != "" && len(pipeIndexes(line)) > 0
}

func isDelimiterRow(line string) bool {
	cells := SplitRow(line)
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if !delimiterCellRe.MatchString(c) {
			return false
		}
	}
	return true
}

// pipeIndexes returns the byte offsets of unescaped pipes in line.
func pipeIndexes(line string) []int {
	var idx []int
	escaped := false
	for i := 0; i < len(line); i++ {
		switch {
		case escaped:
			escaped = false
		case line[i] == '\\':
			escaped = true
		case line[i] == '|':
			idx = append(idx, i)
		}
	}
	return idx
}

// SplitRow splits a table row into trimmed cells. Leading and trailing
// pipes are optional; escaped pipes stay inside their cell.
func SplitRow(line string) []string {
	trimmed := strings.TrimSpace(line)
	pipes := pipeIndexes(trimmed)

	var cells []string
	prev := 0
	for _, p := range pipes {
		cells = append(cells, trimmed[prev:p])
		prev = p + 1
	}
	cells = append(cells, trimmed[prev:])

	if strings.HasPrefix(trimmed, "|") {
		cells = cells[1:]
	}
	if len(pipes) > 0 && strings.HasSuffix(trimmed, "|") && !strings.HasSuffix(trimmed, `\|`) {
		cells = cells[:len(cells)-1]
	}
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

// ColumnAt returns the index of the cell containing byte column col of a
// row's text.
func ColumnAt(line string, col int) int {
	leading := len(line) - len(strings.TrimLeft(line, " \t"))
	n := 0
	for i, p := range pipeIndexes(line) {
		if p >= col {
			break
		}
		if i == 0 && p == leading {
			continue
		}
		n++
	}
	return n
}

// Columns returns the number of columns across header, delimiter and rows.
func (t *Table) Columns() int {
	n := max(len(t.Header), len(t.Aligns))
	for _, r := range t.Rows {
		n = max(n, len(r))
	}
	return n
}

// SetAlignment sets column col's alignment, growing the table if needed.
func (t *Table) SetAlignment(col int, a Alignment) {
	for len(t.Aligns) <= col {
		t.Aligns = append(t.Aligns, AlignNone)
	}
	t.Aligns[col] = a
}

func (t *Table) widths() []int {
	w := make([]int, t.Columns())
	measure := func(cells []string) {
		for i, c := range cells {
			w[i] = max(w[i], runewidth.StringWidth(c))
		}
	}
	measure(t.Header)
	for _, r := range t.Rows {
		measure(r)
	}
	for i := range w {
		w[i] = max(w[i], minDelimiterWidth)
	}
	return w
}

func (t *Table) align(col int) Alignment {
	if col < len(t.Aligns) {
		return t.Aligns[col]
	}
	return AlignNone
}

// Format renders the table, one string per line.
func (t *Table) Format() []string {
	widths := t.widths()
	out := make([]string, 0, len(t.Rows)+2)

	out = append(out, t.formatRow(t.Header, widths))
	delim := make([]string, len(widths))
	for i, w := range widths {
		delim[i] = t.align(i).delimiter(w)
	}
	out = append(out, joinCells(delim))
	for _, r := range t.Rows {
		out = append(out, t.formatRow(r, widths))
	}
	return out
}

func (t *Table) formatRow(cells []string, widths []int) string {
	padded := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		padded[i] = pad(cell, w, t.align(i))
	}
	return joinCells(padded)
}

func pad(cell string, width int, a Alignment) string {
	gap := width - runewidth.StringWidth(cell)
	switch a {
	case AlignRight:
		return strings.Repeat(" ", gap) + cell
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + cell + strings.Repeat(" ", gap-left)
	default:
		return cell + strings.Repeat(" ", gap)
	}
}

func joinCells(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}

// CellStart returns the byte column where cell col begins in a row
// produced by Format.
func CellStart(formatted string, col int) int {
	pipes := pipeIndexes(formatted)
	if col < 0 || col >= len(pipes) {
		return 0
	}
	return pipes[col] + 2
}
