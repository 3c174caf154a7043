// Package errors provides the classified error primitives used across pageloader.
//
// Pipeline failures are degradations, not aborts: a missing fragment, a stylesheet
// that did not load, or an icon without an svg root is wrapped in a ClassifiedError
// and handed to the observability reporter while rendering continues.
//
// Key features:
//   - ErrorCategory: what kind of collaborator failed (absent, resource, malformed, module, ...)
//   - ErrorSeverity: impact level (fatal, error, warning)
//   - Transient: set on network failures; only these are ever retried, and
//     only outside the decoration pipeline
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLI and HTTP adapters for error presentation
//
// Example usage:
//
//	err := errors.AbsentError("fragment not found").
//		WithContext("path", "/nav").
//		WithCause(fetchErr).
//		Build()
package errors
