package palette

import (
	"errors"
	"strings"
)

var (
	// ErrNilCommand is returned when registering a nil command.
	ErrNilCommand = errors.New("command cannot be nil")
	// ErrMissingID is returned when a command has no ID.
	ErrMissingID = errors.New("command ID cannot be empty")
	// ErrMissingTitle is returned when a command has no title.
	ErrMissingTitle = errors.New("command title cannot be empty")
)

// Command is one palette entry.
type Command struct {
	// ID is the dispatcher action name (e.g. "markdownHL1").
	ID string

	// Title is the display name (e.g. "Highlight 1").
	Title string

	// Description provides additional context about the command.
	Description string

	// Category groups related commands ("Highlight", "Table", "Mermaid").
	Category string

	// Source indicates who registered the command: "core" or "script".
	Source string
}

// Validate checks that the command can be registered.
func (c *Command) Validate() error {
	switch {
	case c == nil:
		return ErrNilCommand
	case strings.TrimSpace(c.ID) == "":
		return ErrMissingID
	case strings.TrimSpace(c.Title) == "":
		return ErrMissingTitle
	}
	return nil
}
