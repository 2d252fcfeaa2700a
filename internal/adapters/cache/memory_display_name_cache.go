package cache

import (
	"context"
	"time"
)

// MemoryDisplayNameCache maps place ids to display names in process memory.
type MemoryDisplayNameCache struct {
	store *store[string]
}

func NewMemoryDisplayNameCache(ttl time.Duration) *MemoryDisplayNameCache {
	return &MemoryDisplayNameCache{store: newStore[string](0, ttl)}
}

func (m *MemoryDisplayNameCache) Get(_ context.Context, key string) (string, bool, error) {
	name, ok := m.store.get(key)
	return name, ok, nil
}

func (m *MemoryDisplayNameCache) Put(_ context.Context, key, name string) error {
	m.store.set(key, name)
	return nil
}
