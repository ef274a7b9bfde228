package buffer

import "fmt"

// Edit replaces the text in Range with NewText.
type Edit struct {
	Range   PointRange
	NewText string
}

// NewEdit creates a new Edit.
func NewEdit(r PointRange, newText string) Edit {
	return Edit{Range: r, NewText: newText}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(%s, %q)", e.Range.Start, e.NewText)
	}
	if e.NewText == "" {
		return fmt.Sprintf("Delete%s", e.Range)
	}
	return fmt.Sprintf("Replace%s with %q", e.Range, e.NewText)
}

// EditResult describes an applied edit.
type EditResult struct {
	OldRange PointRange // Range before the batch
	NewRange PointRange // Range covered by the inserted text after the batch
	OldText  string
	NewText  string
	Delta    int // Change in buffer length caused by this edit
}
