// Package buffer provides the line/column text document that the editor
// engine mutates.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Coordinate conversion between byte offsets and line/column points
//   - Atomic multi-edit batches (one revision per batch)
//   - A read-only flag honoured by every write operation
//   - Read-only snapshots for concurrent access
//   - Line ending normalization
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//
//	// Replace "World" with "Gopher"
//	r := buffer.NewPointRange(buffer.Point{Line: 0, Column: 7}, buffer.Point{Line: 0, Column: 12})
//	buf.Replace(r, "Gopher")
//
// Position Types:
//
//   - ByteOffset: Raw byte position in the buffer
//   - Point: Line and column position (0-indexed, column in bytes)
//
// Text is always stored with LF line endings. The line ending detected (or
// configured) at construction is restored by Encoded.
package buffer
