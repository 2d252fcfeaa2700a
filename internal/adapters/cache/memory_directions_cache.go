package cache

import (
	"context"
	"slices"
	"touring-route-service/internal/domain"
)

// MemoryDirectionsCache keeps directions results for the lifetime of the
// process. It is safe for concurrent use, which matters because days of a
// touring are calculated in parallel.
type MemoryDirectionsCache struct {
	store *store[domain.DirectionsResult]
}

// NewMemoryDirectionsCache returns a cache holding at most maxEntries
// results; 0 means unbounded.
func NewMemoryDirectionsCache(maxEntries int) *MemoryDirectionsCache {
	return &MemoryDirectionsCache{store: newStore[domain.DirectionsResult](maxEntries, 0)}
}

func (m *MemoryDirectionsCache) Get(_ context.Context, req domain.DirectionsRequest) (domain.DirectionsResult, bool, error) {
	r, ok := m.store.get(domain.DirectionsKey(req))
	if !ok {
		return domain.DirectionsResult{}, false, nil
	}
	r.Legs = slices.Clone(r.Legs)
	return r, true, nil
}

func (m *MemoryDirectionsCache) Set(_ context.Context, req domain.DirectionsRequest, result domain.DirectionsResult) error {
	result.Legs = slices.Clone(result.Legs)
	m.store.set(domain.DirectionsKey(req), result)
	return nil
}

// Len returns the number of cached results.
func (m *MemoryDirectionsCache) Len() int { return m.store.len() }
