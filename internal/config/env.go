package config

import (
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/hashicorp/go-multierror"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MDENHANCE_"

// LookupFunc looks up an environment variable.
type LookupFunc func(name string) (string, bool)

// EnvName returns the environment variable overriding a settings key,
// e.g. enableLocalPDFPreview becomes MDENHANCE_ENABLE_LOCAL_PDF_PREVIEW.
func EnvName(key string) string {
	runes := []rune(key)
	var b strings.Builder
	b.WriteString(EnvPrefix)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// ApplyEnv overrides s from the environment. Flags take any value
// strconv.ParseBool accepts; MDENHANCE_QUICK_COMMAND_SCRIPTS is a list
// separated by the OS path list separator.
func ApplyEnv(s *Settings, lookup LookupFunc) error {
	var result *multierror.Error

	for _, f := range s.Flags() {
		name := EnvName(f.Name)
		v, ok := lookup(name)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			result = multierror.Append(result, &ValidationError{
				Key:     name,
				Value:   v,
				Message: "must be a boolean",
			})
			continue
		}
		*f.Value = b
	}

	if v, ok := lookup(EnvName("logLevel")); ok {
		s.LogLevel = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvName("quickCommandScripts")); ok {
		s.QuickCommandScripts = splitList(v)
	}

	return result.ErrorOrNil()
}

func splitList(v string) []string {
	var out []string
	for _, p := range filepath.SplitList(v) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
