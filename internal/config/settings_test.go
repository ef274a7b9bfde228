package config

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	s := Default()

	assert.True(t, s.EnableTableFormatter)
	assert.True(t, s.EnableMermaidFolder)
	assert.True(t, s.EnableQuickCommands)
	assert.False(t, s.EnableLocalPDFPreview)
	assert.False(t, s.EnableImageEnhancement)
	assert.False(t, s.EnablePapers)
	assert.False(t, s.EnableAutoAnnotationFetch)
	assert.False(t, s.EnablePseudocode)
	assert.Equal(t, LevelInfo, s.LogLevel)
	assert.NoError(t, s.Validate())
}

func TestFlags(t *testing.T) {
	s := Default()
	flags := s.Flags()
	require.Len(t, flags, 8)

	names := make([]string, len(flags))
	for i, f := range flags {
		names[i] = f.Name
	}
	assert.Equal(t, []string{
		"enableTableFormatter",
		"enableMermaidFolder",
		"enableLocalPDFPreview",
		"enableImageEnhancement",
		"enableQuickCommands",
		"enablePapers",
		"enableAutoAnnotationFetch",
		"enablePseudocode",
	}, names)

	*flags[5].Value = true
	assert.True(t, s.EnablePapers, "Flag.Value should point into the settings")
}

func TestClone(t *testing.T) {
	s := Default()
	s.QuickCommandScripts = []string{"a.lua"}

	c := s.Clone()
	c.QuickCommandScripts[0] = "b.lua"
	c.EnableMermaidFolder = false

	assert.Equal(t, "a.lua", s.QuickCommandScripts[0])
	assert.True(t, s.EnableMermaidFolder)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, (&Settings{LogLevel: "debug"}).Level())
	assert.Equal(t, slog.LevelInfo, (&Settings{LogLevel: "bogus"}).Level())
}

func TestValidateAggregates(t *testing.T) {
	s := Default()
	s.LogLevel = "loud"
	s.QuickCommandScripts = []string{"ok.lua", "", "notes.txt"}

	err := s.Validate()
	require.Error(t, err)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errors, 3)

	keys := make([]string, len(merr.Errors))
	for i, e := range merr.Errors {
		var verr *ValidationError
		require.True(t, errors.As(e, &verr))
		keys[i] = verr.Key
	}
	assert.Equal(t, []string{"logLevel", "quickCommandScripts[1]", "quickCommandScripts[2]"}, keys)
}
