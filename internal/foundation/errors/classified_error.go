package errors

import (
	"errors"
	"fmt"
)

// ClassifiedError is an error with a category, a severity and structured
// context. Values are immutable; WithContext returns a copy.
type ClassifiedError struct {
	category  ErrorCategory
	severity  ErrorSeverity
	transient bool
	message   string
	cause     error
	context   ErrorContext
}

func (e *ClassifiedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.category, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.category, e.message)
}

func (e *ClassifiedError) Unwrap() error { return e.cause }

func (e *ClassifiedError) Category() ErrorCategory { return e.category }
func (e *ClassifiedError) Severity() ErrorSeverity { return e.severity }
func (e *ClassifiedError) Message() string         { return e.message }
func (e *ClassifiedError) Context() ErrorContext   { return e.context }
func (e *ClassifiedError) Cause() error            { return e.cause }

// Transient reports whether a later attempt may succeed.
func (e *ClassifiedError) Transient() bool { return e.transient }

// WithContext returns a copy of e carrying key.
func (e *ClassifiedError) WithContext(key string, value any) *ClassifiedError {
	next := *e
	next.context = e.context.with(key, value)
	return &next
}

// Is matches another ClassifiedError with the same category and message.
func (e *ClassifiedError) Is(target error) bool {
	other, ok := target.(*ClassifiedError)
	return ok && e.category == other.category && e.message == other.message
}

// IsCategory checks if the error belongs to a specific category.
func (e *ClassifiedError) IsCategory(category ErrorCategory) bool {
	return e.category == category
}

// IsDegradation reports whether rendering continues past this error.
func (e *ClassifiedError) IsDegradation() bool {
	return e.category.IsDegradation() && e.severity != SeverityFatal
}

// AsClassified finds the first ClassifiedError in the chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var ce *ClassifiedError
	ok := errors.As(err, &ce)
	return ce, ok
}

// HasCategory reports whether the chain's first ClassifiedError is in category.
func HasCategory(err error, category ErrorCategory) bool {
	ce, ok := AsClassified(err)
	return ok && ce.category == category
}

// GetCategory returns the chain's category, CategoryInternal when unclassified.
func GetCategory(err error) ErrorCategory {
	if ce, ok := AsClassified(err); ok {
		return ce.category
	}
	return CategoryInternal
}

// IsTransient reports whether the chain carries a transient ClassifiedError.
func IsTransient(err error) bool {
	ce, ok := AsClassified(err)
	return ok && ce.transient
}
