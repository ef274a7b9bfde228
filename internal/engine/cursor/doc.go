// Package cursor provides selection management for text editing.
//
// Selections use an anchor/head model where:
//   - Anchor: The position where the selection started
//   - Head: The current cursor position (where typing would occur)
//
// When Anchor == Head, the selection is a caret with no selected text.
//
// CursorSet manages multiple selections that are kept sorted by position
// and merged when they overlap. The first selection is the primary one.
//
// Selection is an immutable value type and safe for concurrent use.
// CursorSet is not thread-safe and should be protected by external
// synchronization if accessed concurrently.
package cursor
