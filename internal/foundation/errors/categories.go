package errors

import "slices"

// ErrorCategory says which part of page loading failed.
type ErrorCategory string

const (
	// CategoryAbsent marks a collaborator or optional document that is unavailable.
	// Callers eject (no-op) instead of rendering partially.
	CategoryAbsent ErrorCategory = "absent"
	// CategoryResource marks a script, stylesheet or font that failed to load.
	CategoryResource ErrorCategory = "resource"
	// CategoryMalformed marks fetched content without the expected structure.
	CategoryMalformed ErrorCategory = "malformed"
	// CategoryModule marks a dynamically loaded module that could not be resolved or run.
	CategoryModule ErrorCategory = "module"

	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"
	CategoryNetwork    ErrorCategory = "network"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategorySession    ErrorCategory = "session"
	CategoryInternal   ErrorCategory = "internal"
)

var degradations = []ErrorCategory{CategoryAbsent, CategoryResource, CategoryMalformed, CategoryModule}

// IsDegradation reports whether the category belongs to the "missing enhancement"
// family that never halts rendering.
func (c ErrorCategory) IsDegradation() bool {
	return slices.Contains(degradations, c)
}

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // the command cannot continue
	SeverityError   ErrorSeverity = "error"   // the current page or request fails
	SeverityWarning ErrorSeverity = "warning" // the page renders without an enhancement
)

// ErrorContext is structured detail attached to an error (path, url, icon...).
type ErrorContext map[string]any

// with returns a copy of c with key set.
func (c ErrorContext) with(key string, value any) ErrorContext {
	next := make(ErrorContext, len(c)+1)
	for k, v := range c {
		next[k] = v
	}
	next[key] = value
	return next
}

// GetString returns the value at key when it is a string.
func (c ErrorContext) GetString(key string) (string, bool) {
	s, ok := c[key].(string)
	return s, ok
}
