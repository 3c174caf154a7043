package errors

import (
	"context"
	"fmt"
	"log/slog"
)

// exitCodes maps categories to process exit codes. Unlisted categories and
// unclassified errors exit with 1. All four degradation categories share 9 so
// that `render --strict` failures are distinguishable from hard failures.
var exitCodes = map[ErrorCategory]int{
	CategoryValidation: 2,
	CategoryNotFound:   3,
	CategoryConfig:     7,
	CategoryNetwork:    8,
	CategoryAbsent:     9,
	CategoryResource:   9,
	CategoryMalformed:  9,
	CategoryModule:     9,
	CategoryInternal:   10,
	CategoryFileSystem: 11,
	CategorySession:    11,
}

// CLIErrorAdapter turns command errors into a log line and an exit code.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter returns an adapter logging to logger, or slog.Default when nil.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger}
}

// ExitCodeFor returns 0 for nil, the category's code for classified errors and 1 otherwise.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	ce, ok := AsClassified(err)
	if !ok {
		return 1
	}
	if code, found := exitCodes[ce.Category()]; found {
		return code
	}
	return 1
}

// FormatError renders err for a terminal. Verbose mode keeps the cause chain.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	ce, ok := AsClassified(err)
	switch {
	case !ok:
		return fmt.Sprintf("Error: %v", err)
	case a.verbose:
		return ce.Error()
	}
	msg := "Error: " + ce.Message()
	if p, found := ce.Context().GetString("path"); found {
		msg += " (" + p + ")"
	}
	return msg
}

// Report logs err once and returns the exit code for it. The caller owns os.Exit.
func (a *CLIErrorAdapter) Report(err error) int {
	if err == nil {
		return 0
	}
	ce, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return 1
	}
	attrs := make([]slog.Attr, 0, len(ce.Context())+1)
	attrs = append(attrs, slog.String("category", string(ce.Category())))
	for k, v := range ce.Context() {
		attrs = append(attrs, slog.Any(k, v))
	}
	a.logger.LogAttrs(context.Background(), logLevel(ce.Severity()), ce.Message(), attrs...)
	return a.ExitCodeFor(err)
}

func logLevel(s ErrorSeverity) slog.Level {
	if s == SeverityWarning {
		return slog.LevelWarn
	}
	return slog.LevelError
}
