package errors

// ErrorBuilder assembles a ClassifiedError.
type ErrorBuilder struct {
	err ClassifiedError
}

// NewError starts an error-severity, non-transient error.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{category: category, severity: SeverityError, message: message}}
}

// WrapError starts an error that wraps err.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	return NewError(category, message).WithCause(err)
}

func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.err.cause = err
	return b
}

func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.context = b.err.context.with(key, value)
	return b
}

// Warning marks the error as a degradation the page survives.
func (b *ErrorBuilder) Warning() *ErrorBuilder {
	b.err.severity = SeverityWarning
	return b
}

// Fatal marks the error as ending the command.
func (b *ErrorBuilder) Fatal() *ErrorBuilder {
	b.err.severity = SeverityFatal
	return b
}

// Transient marks the error as worth retrying.
func (b *ErrorBuilder) Transient() *ErrorBuilder {
	b.err.transient = true
	return b
}

// Build returns the error. The builder may keep being used.
func (b *ErrorBuilder) Build() *ClassifiedError {
	e := b.err
	return &e
}

// Degradations are warnings.

// AbsentError creates a collaborator-absent error.
func AbsentError(message string) *ErrorBuilder {
	return NewError(CategoryAbsent, message).Warning()
}

// ResourceError creates a script/style/font load error.
func ResourceError(message string) *ErrorBuilder {
	return NewError(CategoryResource, message).Warning()
}

// MalformedError creates a malformed content error.
func MalformedError(message string) *ErrorBuilder {
	return NewError(CategoryMalformed, message).Warning()
}

// ModuleError creates a dynamic module load error. It stays at error severity
// because the widget loader propagates it to its caller.
func ModuleError(message string) *ErrorBuilder {
	return NewError(CategoryModule, message)
}

func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal()
}

func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).Fatal()
}

// NetworkError creates a transient network error.
func NetworkError(message string) *ErrorBuilder {
	return NewError(CategoryNetwork, message).Transient()
}

func NotFoundError(message string) *ErrorBuilder {
	return NewError(CategoryNotFound, message)
}

func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message)
}

// SessionError creates a session storage error; session flags are best effort.
func SessionError(message string) *ErrorBuilder {
	return NewError(CategorySession, message).Warning()
}

func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).Fatal()
}
