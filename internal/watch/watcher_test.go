package watch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherDebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "global"), 0o755))

	changes := make(chan []string, 4)
	w, err := New(dir, 200*time.Millisecond, func(paths []string) {
		sort.Strings(paths)
		changes <- paths
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		<-w.Done()
	}()
	go func() { _ = w.Run(ctx) }()
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.md"), []byte("# one"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "global", "footer.md"), []byte("(c)"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".index.md.swp"), []byte("x"), 0o644))

	select {
	case got := <-changes:
		assert.Equal(t, []string{"global/footer.md", "index.md"}, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestIgnored(t *testing.T) {
	assert.True(t, ignored("/c/.git"))
	assert.True(t, ignored("/c/page.md~"))
	assert.True(t, ignored("/c/.page.md.swp"))
	assert.False(t, ignored("/c/page.md"))
}
