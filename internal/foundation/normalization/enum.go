// Package normalization maps loosely written configuration values onto
// typed enumerations.
package normalization

import (
	"fmt"
	"slices"
	"strings"
)

// Enum resolves case- and whitespace-insensitive aliases to values of T.
type Enum[T comparable] struct {
	name     string
	aliases  map[string]T
	fallback T
	keys     []string
}

// NewEnum builds an Enum named name (used in error messages). Values that do
// not resolve fall back to fallback in Normalize.
func NewEnum[T comparable](name string, aliases map[string]T, fallback T) *Enum[T] {
	e := &Enum[T]{name: name, aliases: make(map[string]T, len(aliases)), fallback: fallback}
	for k, v := range aliases {
		key := clean(k)
		e.aliases[key] = v
		e.keys = append(e.keys, key)
	}
	slices.Sort(e.keys)
	return e
}

// Normalize returns the value raw names and true, or the fallback and false.
func (e *Enum[T]) Normalize(raw string) (T, bool) {
	if v, ok := e.aliases[clean(raw)]; ok {
		return v, true
	}
	return e.fallback, false
}

// Parse returns the value raw names, or an error listing the accepted names.
func (e *Enum[T]) Parse(raw string) (T, error) {
	if v, ok := e.aliases[clean(raw)]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q, valid options: %s", e.name, raw, strings.Join(e.keys, ", "))
}

// Keys returns the accepted names, sorted.
func (e *Enum[T]) Keys() []string {
	return slices.Clone(e.keys)
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
