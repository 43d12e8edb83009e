package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/convomesh/core"
)

// Compile-time interface assertion.
var _ core.StorageBackend = (*InMemoryBackend)(nil)

func TestInMemoryBackend_GetSetDelete(t *testing.T) {
	b := NewInMemoryBackend()
	ctx := context.Background()

	_, err := b.Get(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrKeyNotFound)

	require.NoError(t, b.Set(ctx, "k", []byte("v")))
	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	ok, err := b.Has(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, b.Delete(ctx, "k"))
	ok, err = b.Has(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent key is not an error.
	assert.NoError(t, b.Delete(ctx, "k"))
}

func TestInMemoryBackend_CopiesOnWriteAndRead(t *testing.T) {
	b := NewInMemoryBackend()
	ctx := context.Background()

	input := []byte("original")
	require.NoError(t, b.Set(ctx, "k", input))
	input[0] = 'X'

	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got)

	got[0] = 'Y'
	again, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again)
}

func TestInMemoryBackend_KeysAndClear(t *testing.T) {
	b := NewInMemoryBackend()
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "session:1", []byte("a")))
	require.NoError(t, b.Set(ctx, "session:2", []byte("b")))
	require.NoError(t, b.Set(ctx, "participant:x", []byte("c")))

	keys, err := b.Keys(ctx, "session:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"session:1", "session:2"}, keys)

	all, err := b.Keys(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, b.Clear(ctx))
	all, err = b.Keys(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}
