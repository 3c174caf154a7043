package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogContextValues(t *testing.T) {
	ctx := context.Background()
	ctx = WithPageID(ctx, "page-123")
	ctx = WithURL(ctx, "https://example.com/")
	ctx = WithPhase(ctx, "eager")

	lc := GetContext(ctx)
	assert.Equal(t, "page-123", lc.PageID)
	assert.Equal(t, "https://example.com/", lc.URL)
	assert.Equal(t, "eager", lc.Phase)

	// Later phases overwrite, earlier fields survive.
	lc = GetContext(WithPhase(ctx, "lazy"))
	assert.Equal(t, "lazy", lc.Phase)
	assert.Equal(t, "page-123", lc.PageID)
}

func TestAttrsEmptyContext(t *testing.T) {
	assert.Empty(t, Attrs(context.Background()))
}

func TestInfoContextIncludesAttrs(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	ctx := WithPhase(WithPageID(context.Background(), "p1"), "lazy")
	InfoContext(ctx, "phase complete", slog.Int("sections", 3))

	out := buf.String()
	assert.Contains(t, out, "page.id=p1")
	assert.Contains(t, out, "phase=lazy")
	assert.Contains(t, out, "sections=3")
}
