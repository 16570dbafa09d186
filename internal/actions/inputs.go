// Package actions is the boundary to the GitHub Actions runner: step inputs,
// the triggering event and step outputs.
//
// Nothing here reads process-global state on its own; callers inject the
// environment lookup so the pipeline can run against fixed inputs in tests.
package actions

import (
	"os"
	"strings"
)

// LookupFunc has the shape of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Source provides named step inputs.
type Source interface {
	// Lookup returns the input value and whether it was supplied at all.
	Lookup(name string) (string, bool)
}

// EnvSource reads inputs the way the runner exposes them: as INPUT_<NAME>
// environment variables. Values are trimmed of surrounding whitespace.
type EnvSource struct {
	lookup LookupFunc
}

// NewEnvSource creates an EnvSource over the given lookup.
// A nil lookup reads the process environment.
func NewEnvSource(lookup LookupFunc) *EnvSource {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &EnvSource{lookup: lookup}
}

// Lookup implements Source.
func (s *EnvSource) Lookup(name string) (string, bool) {
	value, ok := s.lookup(InputEnvKey(name))
	if !ok {
		return "", false
	}
	return strings.TrimSpace(value), true
}

// InputEnvKey returns the environment variable the runner sets for an input.
// Hyphens are kept: "value-files" becomes INPUT_VALUE-FILES.
func InputEnvKey(name string) string {
	return "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
}

// MapSource serves inputs from a map. Used for config files and tests.
type MapSource map[string]string

// Lookup implements Source.
func (m MapSource) Lookup(name string) (string, bool) {
	value, ok := m[name]
	return value, ok
}

// Chain consults each source in order and returns the first supplied value.
type Chain []Source

// Lookup implements Source.
func (c Chain) Lookup(name string) (string, bool) {
	for _, src := range c {
		if src == nil {
			continue
		}
		if value, ok := src.Lookup(name); ok {
			return value, true
		}
	}
	return "", false
}

// InputName converts an input key to the platform's hyphenated convention.
func InputName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}
