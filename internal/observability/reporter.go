package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
	"git.home.luguber.info/inful/pageloader/internal/logfields"
	"git.home.luguber.info/inful/pageloader/internal/metrics"
)

// Reporter receives failures the pipeline swallowed so rendering could continue.
type Reporter interface {
	Report(ctx context.Context, err error)
}

// NopReporter discards every report.
type NopReporter struct{}

func (NopReporter) Report(context.Context, error) {}

// LogReporter logs reports through slog and counts them by category.
type LogReporter struct {
	logger   *slog.Logger
	recorder metrics.Recorder
}

// NewLogReporter creates a LogReporter. Nil arguments fall back to the default
// logger and a NoopRecorder.
func NewLogReporter(logger *slog.Logger, recorder metrics.Recorder) *LogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &LogReporter{logger: logger, recorder: recorder}
}

func (r *LogReporter) Report(ctx context.Context, err error) {
	if err == nil {
		return
	}
	category := derrors.GetCategory(err)
	r.recorder.IncDegradation(string(category))

	attrs := append(Attrs(ctx), logfields.Category(string(category)))
	level := slog.LevelError
	msg := err.Error()
	if c, ok := derrors.AsClassified(err); ok {
		msg = c.Message()
		if c.Severity() == derrors.SeverityWarning {
			level = slog.LevelWarn
		}
		keys := make([]string, 0, len(c.Context()))
		for k := range c.Context() {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			attrs = append(attrs, slog.String(k, fmt.Sprint(c.Context()[k])))
		}
		if c.Cause() != nil {
			attrs = append(attrs, logfields.Error(c.Cause()))
		}
	}
	r.logger.LogAttrs(ctx, level, msg, attrs...)
}

// MemoryReporter keeps every report; the render command uses it for its summary.
type MemoryReporter struct {
	mu   sync.Mutex
	errs []error
}

func (r *MemoryReporter) Report(_ context.Context, err error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

// Errors returns a copy of the recorded errors in report order.
func (r *MemoryReporter) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]error, len(r.errs))
	copy(out, r.errs)
	return out
}

// Len returns the number of recorded errors.
func (r *MemoryReporter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs)
}

// Multi fans a report out to every reporter.
type Multi []Reporter

func (m Multi) Report(ctx context.Context, err error) {
	for _, r := range m {
		if r != nil {
			r.Report(ctx, err)
		}
	}
}
