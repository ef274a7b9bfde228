package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/mdenhance/internal/editor"
	"github.com/dshills/mdenhance/internal/engine/buffer"
)

// ErrNoPath is returned when saving a document that has no file.
var ErrNoPath = errors.New("document has no path")

// Document is an open markdown file with its editor state.
type Document struct {
	// Path is the absolute file path (empty for scratch documents).
	Path string

	// Name is the display name (file name or "Untitled").
	Name string

	// Editor holds the buffer, selections and token classifier.
	Editor *editor.Editor

	savedRev buffer.RevisionID
	mode     os.FileMode
}

// OpenDocument reads path into a new document.
func OpenDocument(path string, readOnly bool) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", abs)
	}
	buf, err := buffer.NewBufferFromReader(f, buffer.WithReadOnly(readOnly))
	if err != nil {
		return nil, err
	}

	doc := newDocument(abs, buf)
	doc.mode = info.Mode().Perm()
	return doc, nil
}

// NewDocument creates a document over content. The line ending style of
// content is kept when saving.
func NewDocument(path, content string, readOnly bool) *Document {
	return newDocument(path, buffer.NewBufferFromString(content, buffer.WithReadOnly(readOnly)))
}

func newDocument(path string, buf *buffer.Buffer) *Document {
	name := filepath.Base(path)
	if path == "" {
		name = "Untitled"
	}
	return &Document{
		Path:     path,
		Name:     name,
		Editor:   editor.New(buf),
		savedRev: buf.RevisionID(),
		mode:     0o644,
	}
}

// IsScratch reports whether the document has no backing file.
func (d *Document) IsScratch() bool {
	return d.Path == ""
}

// IsModified reports whether the document changed since it was opened or
// last saved.
func (d *Document) IsModified() bool {
	return d.Editor.Buffer().RevisionID() != d.savedRev
}

// Save writes the document to its path through a temporary file in the
// same directory, so a failed write never truncates the original.
func (d *Document) Save() error {
	if d.IsScratch() {
		return ErrNoPath
	}

	buf := d.Editor.Buffer()
	rev := buf.RevisionID()

	tmp, err := os.CreateTemp(filepath.Dir(d.Path), "."+d.Name+".*")
	if err != nil {
		return fmt.Errorf("saving %s: %w", d.Path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(buf.Encoded()); err != nil {
		tmp.Close()
		return fmt.Errorf("saving %s: %w", d.Path, err)
	}
	if err := tmp.Chmod(d.mode); err != nil {
		tmp.Close()
		return fmt.Errorf("saving %s: %w", d.Path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("saving %s: %w", d.Path, err)
	}
	if err := os.Rename(tmp.Name(), d.Path); err != nil {
		return fmt.Errorf("saving %s: %w", d.Path, err)
	}

	d.savedRev = rev
	return nil
}
