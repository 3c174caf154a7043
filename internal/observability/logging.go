package observability

import (
	"context"
	"log/slog"
)

// LogContext is the render scope carried on a context: which page and which phase.
type LogContext struct {
	PageID string
	URL    string
	Phase  string
}

type logContextKey struct{}

func update(ctx context.Context, mutate func(*LogContext)) context.Context {
	lc := GetContext(ctx)
	mutate(&lc)
	return context.WithValue(ctx, logContextKey{}, lc)
}

// WithPageID tags ctx with the render id.
func WithPageID(ctx context.Context, id string) context.Context {
	return update(ctx, func(lc *LogContext) { lc.PageID = id })
}

// WithURL tags ctx with the page URL.
func WithURL(ctx context.Context, u string) context.Context {
	return update(ctx, func(lc *LogContext) { lc.URL = u })
}

// WithPhase tags ctx with the running lifecycle phase.
func WithPhase(ctx context.Context, phase string) context.Context {
	return update(ctx, func(lc *LogContext) { lc.Phase = phase })
}

// GetContext returns the render scope of ctx, zero when untagged.
func GetContext(ctx context.Context) LogContext {
	lc, _ := ctx.Value(logContextKey{}).(LogContext)
	return lc
}

// Attrs converts the render scope of ctx into slog attributes, skipping empty fields.
func Attrs(ctx context.Context) []slog.Attr {
	lc := GetContext(ctx)
	var attrs []slog.Attr
	for _, f := range [...]struct{ key, val string }{
		{"page.id", lc.PageID},
		{"page.url", lc.URL},
		{"phase", lc.Phase},
	} {
		if f.val != "" {
			attrs = append(attrs, slog.String(f.key, f.val))
		}
	}
	return attrs
}

// InfoContext logs msg at info level with the render scope prepended.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelInfo, msg, append(Attrs(ctx), attrs...)...)
}

// DebugContext logs msg at debug level with the render scope prepended.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelDebug, msg, append(Attrs(ctx), attrs...)...)
}
