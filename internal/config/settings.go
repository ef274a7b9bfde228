// Package config loads mdenhance settings.
//
// Settings come from three layers, later layers overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A TOML or YAML file, chosen by extension
//  3. MDENHANCE_* environment variables
//
// The result is validated before it is returned. A Watcher reloads the
// file when it changes on disk.
package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Log levels accepted by LogLevel.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Settings holds the feature flags and runtime options.
type Settings struct {
	EnableTableFormatter      bool `toml:"enableTableFormatter" yaml:"enableTableFormatter"`
	EnableMermaidFolder       bool `toml:"enableMermaidFolder" yaml:"enableMermaidFolder"`
	EnableLocalPDFPreview     bool `toml:"enableLocalPDFPreview" yaml:"enableLocalPDFPreview"`
	EnableImageEnhancement    bool `toml:"enableImageEnhancement" yaml:"enableImageEnhancement"`
	EnableQuickCommands       bool `toml:"enableQuickCommands" yaml:"enableQuickCommands"`
	EnablePapers              bool `toml:"enablePapers" yaml:"enablePapers"`
	EnableAutoAnnotationFetch bool `toml:"enableAutoAnnotationFetch" yaml:"enableAutoAnnotationFetch"`
	EnablePseudocode          bool `toml:"enablePseudocode" yaml:"enablePseudocode"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `toml:"logLevel" yaml:"logLevel"`

	// QuickCommandScripts are Lua files run at startup when quick commands
	// are enabled. Relative paths resolve against the settings file.
	QuickCommandScripts []string `toml:"quickCommandScripts" yaml:"quickCommandScripts"`
}

// Default returns the built-in settings. The features mdenhance
// implements are on; the rest are off.
func Default() *Settings {
	return &Settings{
		EnableTableFormatter: true,
		EnableMermaidFolder:  true,
		EnableQuickCommands:  true,
		LogLevel:             LevelInfo,
	}
}

// Flag is a named boolean setting.
type Flag struct {
	Name  string
	Value *bool
}

// Flags returns the feature flags in declaration order. Values point into s.
func (s *Settings) Flags() []Flag {
	return []Flag{
		{"enableTableFormatter", &s.EnableTableFormatter},
		{"enableMermaidFolder", &s.EnableMermaidFolder},
		{"enableLocalPDFPreview", &s.EnableLocalPDFPreview},
		{"enableImageEnhancement", &s.EnableImageEnhancement},
		{"enableQuickCommands", &s.EnableQuickCommands},
		{"enablePapers", &s.EnablePapers},
		{"enableAutoAnnotationFetch", &s.EnableAutoAnnotationFetch},
		{"enablePseudocode", &s.EnablePseudocode},
	}
}

// Clone returns a deep copy of s.
func (s *Settings) Clone() *Settings {
	c := *s
	c.QuickCommandScripts = append([]string(nil), s.QuickCommandScripts...)
	return &c
}

// Level returns LogLevel as a slog level. Unknown values map to info.
func (s *Settings) Level() slog.Level {
	lvl, err := ParseLevel(s.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// ParseLevel parses a level name, case-insensitively.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case LevelDebug:
		return slog.LevelDebug, nil
	case LevelInfo, "":
		return slog.LevelInfo, nil
	case LevelWarn, "warning":
		return slog.LevelWarn, nil
	case LevelError:
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// Validate reports every invalid setting. The returned error is a
// *multierror.Error whose entries are *ValidationError.
func (s *Settings) Validate() error {
	var result *multierror.Error

	if _, err := ParseLevel(s.LogLevel); err != nil {
		result = multierror.Append(result, &ValidationError{
			Key:     "logLevel",
			Value:   s.LogLevel,
			Message: "must be one of debug, info, warn, error",
		})
	}

	for i, script := range s.QuickCommandScripts {
		key := fmt.Sprintf("quickCommandScripts[%d]", i)
		switch {
		case strings.TrimSpace(script) == "":
			result = multierror.Append(result, &ValidationError{
				Key:     key,
				Message: "must not be empty",
			})
		case filepath.Ext(script) != ".lua":
			result = multierror.Append(result, &ValidationError{
				Key:     key,
				Value:   script,
				Message: "must be a .lua file",
			})
		}
	}

	return result.ErrorOrNil()
}

// resolvePaths makes relative script paths relative to dir.
func (s *Settings) resolvePaths(dir string) {
	for i, script := range s.QuickCommandScripts {
		if script != "" && !filepath.IsAbs(script) {
			s.QuickCommandScripts[i] = filepath.Join(dir, script)
		}
	}
}
