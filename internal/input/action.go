package input

import (
	"strconv"
	"strings"
)

// ActionSource indicates the origin of an action.
type ActionSource uint8

const (
	// SourceCLI indicates the action came from the command line.
	SourceCLI ActionSource = iota
	// SourcePalette indicates the action was picked from the command palette.
	SourcePalette
	// SourceScript indicates the action was issued by a Lua quick command.
	SourceScript
	// SourceAPI indicates the action was issued programmatically.
	SourceAPI
)

// String returns a string representation of the action source.
func (s ActionSource) String() string {
	switch s {
	case SourceCLI:
		return "cli"
	case SourcePalette:
		return "palette"
	case SourceScript:
		return "script"
	case SourceAPI:
		return "api"
	default:
		return "unknown"
	}
}

// ActionArgs holds arguments for an action.
type ActionArgs struct {
	// Text for insert/replace style commands.
	Text string

	// Strings holds positional arguments, e.g. the two alignment
	// characters of a table command.
	Strings []string

	// Extra holds additional key-value pairs for extensibility.
	Extra map[string]any
}

// Get retrieves a value from Extra.
func (a ActionArgs) Get(key string) (any, bool) {
	if a.Extra == nil {
		return nil, false
	}
	v, ok := a.Extra[key]
	return v, ok
}

// GetString retrieves a string value from Extra.
func (a ActionArgs) GetString(key string) string {
	if v, ok := a.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetInt retrieves an int value from Extra. Numeric strings are parsed.
func (a ActionArgs) GetInt(key string) int {
	if v, ok := a.Get(key); ok {
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		case string:
			if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
				return i
			}
		}
	}
	return 0
}

// GetBool retrieves a bool value from Extra.
func (a ActionArgs) GetBool(key string) bool {
	if v, ok := a.Get(key); ok {
		switch b := v.(type) {
		case bool:
			return b
		case string:
			parsed, err := strconv.ParseBool(b)
			return err == nil && parsed
		}
	}
	return false
}

// String returns the positional argument at i, or "".
func (a ActionArgs) String(i int) string {
	if i < 0 || i >= len(a.Strings) {
		return ""
	}
	return a.Strings[i]
}

// Action represents a command to be executed by the dispatcher.
type Action struct {
	// Name is the command identifier (e.g. "markdownHL1", "mermaid.foldAll").
	Name string

	// Args contains command-specific arguments.
	Args ActionArgs

	// Source indicates where this action originated.
	Source ActionSource
}

// NewAction creates an action with the given name from the API source.
func NewAction(name string) Action {
	return Action{Name: name, Source: SourceAPI}
}

// WithSource returns a copy of the action with the specified source.
func (a Action) WithSource(src ActionSource) Action {
	a.Source = src
	return a
}

// WithStrings returns a copy of the action with the positional arguments.
func (a Action) WithStrings(args ...string) Action {
	a.Args.Strings = append([]string(nil), args...)
	return a
}

// WithExtra returns a copy of the action with key set in Extra.
func (a Action) WithExtra(key string, value any) Action {
	extra := make(map[string]any, len(a.Args.Extra)+1)
	for k, v := range a.Args.Extra {
		extra[k] = v
	}
	extra[key] = value
	a.Args.Extra = extra
	return a
}

// Namespace returns the text before the first dot of the action name,
// or the whole name when it has no dot.
func (a Action) Namespace() string {
	if i := strings.IndexByte(a.Name, '.'); i >= 0 {
		return a.Name[:i]
	}
	return a.Name
}
