package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/convomesh/core"
)

// Compile-time interface assertion.
var _ core.StorageBackend = (*SQLiteBackend)(nil)

func newTestSQLite(t *testing.T) (*SQLiteBackend, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "convomesh.db")
	b, err := NewSQLiteBackend(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b, path
}

func TestSQLiteBackend_GetSetDelete(t *testing.T) {
	b, _ := newTestSQLite(t)
	ctx := context.Background()

	_, err := b.Get(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrKeyNotFound)

	require.NoError(t, b.Set(ctx, "k", []byte("v1")))
	require.NoError(t, b.Set(ctx, "k", []byte("v2")), "set must upsert")

	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)

	ok, err := b.Has(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, b.Delete(ctx, "k"))
	ok, err = b.Has(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteBackend_KeysPrefixAndClear(t *testing.T) {
	b, _ := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "session:b", []byte("1")))
	require.NoError(t, b.Set(ctx, "session:a", []byte("2")))
	require.NoError(t, b.Set(ctx, "participant:x", []byte("3")))

	keys, err := b.Keys(ctx, "session:")
	require.NoError(t, err)
	assert.Equal(t, []string{"session:a", "session:b"}, keys, "keys are sorted")

	all, err := b.Keys(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, b.Clear(ctx))
	all, err = b.Keys(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSQLiteBackend_PersistsAcrossReopen(t *testing.T) {
	b, path := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "session:keep", []byte("durable")))
	require.NoError(t, b.Close())

	reopened, err := NewSQLiteBackend(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "session:keep")
	require.NoError(t, err)
	assert.Equal(t, []byte("durable"), got)
}
