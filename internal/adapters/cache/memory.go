package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// store is a thread-safe map with optional expiry and an optional bound on
// the number of entries. When full, the oldest inserted entry is evicted.
type store[T any] struct {
	mu         sync.RWMutex
	items      map[string]entry[T]
	order      []string
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

func newStore[T any](maxEntries int, ttl time.Duration) *store[T] {
	return &store[T]{
		items:      make(map[string]entry[T]),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

func (s *store[T]) get(key string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.items[key]
	if !ok || (!e.expiresAt.IsZero() && s.now().After(e.expiresAt)) {
		var zero T
		return zero, false
	}
	return e.value, true
}

func (s *store[T]) set(key string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var expiresAt time.Time
	if s.ttl > 0 {
		expiresAt = now.Add(s.ttl)
		s.dropExpired(now)
	}

	if _, exists := s.items[key]; !exists {
		s.order = append(s.order, key)
	}
	s.items[key] = entry[T]{value: value, expiresAt: expiresAt}

	for s.maxEntries > 0 && len(s.items) > s.maxEntries {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.items, oldest)
	}
}

// dropExpired removes every expired entry. Callers hold the write lock.
func (s *store[T]) dropExpired(now time.Time) {
	kept := s.order[:0]
	for _, key := range s.order {
		if e := s.items[key]; !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(s.items, key)
			continue
		}
		kept = append(kept, key)
	}
	s.order = kept
}

func (s *store[T]) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
