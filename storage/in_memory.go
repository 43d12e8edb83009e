package storage

import (
	"context"
	"strings"
	"sync"

	"github.com/hupe1980/convomesh/core"
)

// InMemoryBackend is a volatile core.StorageBackend storing values in a
// process local map. It is safe for concurrent access and best suited for
// tests, examples and single-process prototypes. Values are copied on write
// and read to avoid accidental external mutation of internal buffers.
//
// There is no persistence across process restarts; conversations stored here
// vanish with the process.
type InMemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewInMemoryBackend returns an empty in-memory backend.
func NewInMemoryBackend() *InMemoryBackend {
	return &InMemoryBackend{data: make(map[string][]byte)}
}

// Get returns a copy of the stored value or core.ErrKeyNotFound.
func (b *InMemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.data[key]
	if !ok {
		return nil, core.ErrKeyNotFound
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, nil
}

// Set stores (or overwrites) the value under key. The input slice is copied
// before storage.
func (b *InMemoryBackend) Set(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	b.data[key] = cp
	return nil
}

// Delete removes the key if present. Deleting an absent key is not an error.
func (b *InMemoryBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
	return nil
}

// Has reports whether the key exists.
func (b *InMemoryBackend) Has(_ context.Context, key string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.data[key]
	return ok, nil
}

// Keys returns a snapshot of all keys with the given prefix.
func (b *InMemoryBackend) Keys(_ context.Context, prefix string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys := make([]string, 0, len(b.data))
	for k := range b.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// Clear removes every key.
func (b *InMemoryBackend) Clear(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = make(map[string][]byte)
	return nil
}
