package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()
	a := b.Session("a")
	other := b.Session("b")

	_, ok, err := a.Get(ctx, FontsLoadedKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, a.Set(ctx, FontsLoadedKey, "true"))
	require.NoError(t, a.Set(ctx, FontsLoadedKey, "true"))

	v, ok, err := a.Get(ctx, FontsLoadedKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	_, ok, err = other.Get(ctx, FontsLoadedKey)
	require.NoError(t, err)
	assert.False(t, ok, "flags are scoped to their session")
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	exerciseBackend(t, m)
	assert.NoError(t, m.Close())
}

func TestSQLiteInMemory(t *testing.T) {
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()
	exerciseBackend(t, s)
}

func TestSQLitePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	s, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Session("x").Set(context.Background(), FontsLoadedKey, "true"))
	require.NoError(t, s.Close())

	reopened, err := NewSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()
	v, ok, err := reopened.Session("x").Get(context.Background(), FontsLoadedKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}
