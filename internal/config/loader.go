package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Load reads settings from path, applies MDENHANCE_* environment
// overrides and validates the result. An empty path or a missing file
// yields the defaults.
func Load(path string) (*Settings, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with a custom environment lookup.
func LoadWithEnv(path string, lookup LookupFunc) (*Settings, error) {
	s := Default()
	if path != "" {
		if err := loadFile(path, s); err != nil {
			return nil, err
		}
	}
	if err := ApplyEnv(s, lookup); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// loadFile decodes path over s. A missing file leaves s unchanged.
func loadFile(path string, s *Settings) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading settings file %s: %w", path, err)
	}

	if err := Decode(path, data, s); err != nil {
		return err
	}
	s.resolvePaths(filepath.Dir(path))
	return nil
}

// Decode parses data over s using the format implied by source's
// extension. Unknown keys are rejected.
func Decode(source string, data []byte, s *Settings) error {
	switch ext := strings.ToLower(filepath.Ext(source)); ext {
	case ".toml":
		return decodeTOML(source, data, s)
	case ".yaml", ".yml":
		return decodeYAML(source, data, s)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func decodeTOML(source string, data []byte, s *Settings) error {
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(s); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return perr
	}
	return nil
}

func decodeYAML(source string, data []byte, s *Settings) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return nil
}
