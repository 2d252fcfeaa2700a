package repositories

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"
	"touring-route-service/internal/domain"

	"github.com/google/uuid"
)

// MemoryTouringRepository keeps tourings in process memory. It backs local
// runs without DATABASE_URL and the HTTP tests.
type MemoryTouringRepository struct {
	mu       sync.Mutex
	tourings map[string]memoryTouring
	now      func() time.Time
}

type memoryTouring struct {
	userID string
	entity domain.TouringEntity
}

func NewMemoryTouringRepository() *MemoryTouringRepository {
	return &MemoryTouringRepository{tourings: map[string]memoryTouring{}, now: time.Now}
}

func (m *MemoryTouringRepository) Store(_ context.Context, userID string, entity *domain.TouringEntity) (*domain.TouringEntity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	e := cloneTouring(*entity)
	if e.ID == "" {
		e.ID = uuid.NewString()
		e.SharedTouringID = uuid.NewString()
		e.CreatedAt = &now
	} else {
		current, ok := m.tourings[e.ID]
		if !ok {
			return nil, fmt.Errorf("update touring %s: %w", e.ID, domain.ErrNotFound)
		}
		if current.userID != userID {
			return nil, fmt.Errorf("update touring %s: %w", e.ID, domain.ErrForbidden)
		}
		e.SharedTouringID = current.entity.SharedTouringID
		e.CreatedAt = current.entity.CreatedAt
	}
	e.UpdatedAt = &now

	m.tourings[e.ID] = memoryTouring{userID: userID, entity: e}
	out := cloneTouring(e)
	return &out, nil
}

func (m *MemoryTouringRepository) FindByID(_ context.Context, userID, id string) (*domain.TouringEntity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tourings[id]
	if !ok || t.userID != userID {
		return nil, fmt.Errorf("find touring %s: %w", id, domain.ErrNotFound)
	}
	out := cloneTouring(t.entity)
	return &out, nil
}

func (m *MemoryTouringRepository) FindAllByUser(_ context.Context, userID string) ([]*domain.TouringEntity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*domain.TouringEntity, 0, len(m.tourings))
	for _, t := range m.tourings {
		if t.userID != userID {
			continue
		}
		e := cloneTouring(t.entity)
		e.Routes = nil
		out = append(out, &e)
	}
	slices.SortFunc(out, func(a, b *domain.TouringEntity) int {
		return b.UpdatedAt.Compare(*a.UpdatedAt)
	})
	return out, nil
}

func (m *MemoryTouringRepository) Remove(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tourings[id]
	if !ok || t.userID != userID {
		return fmt.Errorf("remove touring %s: %w", id, domain.ErrNotFound)
	}
	delete(m.tourings, id)
	return nil
}

func cloneTouring(e domain.TouringEntity) domain.TouringEntity {
	e.Routes = maps.Clone(e.Routes)
	return e
}

// MemorySharedTouringRepository keeps published tourings in process memory.
type MemorySharedTouringRepository struct {
	mu     sync.Mutex
	shared map[string]domain.SharedTouringEntity
}

func NewMemorySharedTouringRepository() *MemorySharedTouringRepository {
	return &MemorySharedTouringRepository{shared: map[string]domain.SharedTouringEntity{}}
}

func (m *MemorySharedTouringRepository) Store(_ context.Context, entity *domain.SharedTouringEntity) error {
	if entity == nil || entity.ID == "" {
		return fmt.Errorf("store shared touring: id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	entity.UpdatedAt = &now
	if prev, ok := m.shared[entity.ID]; ok {
		entity.CreatedAt = prev.CreatedAt
	} else {
		entity.CreatedAt = &now
	}
	m.shared[entity.ID] = *entity
	return nil
}

func (m *MemorySharedTouringRepository) FindByID(_ context.Context, id string) (*domain.SharedTouringEntity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.shared[id]
	if !ok {
		return nil, fmt.Errorf("find shared touring %s: %w", id, domain.ErrNotFound)
	}
	return &e, nil
}

func (m *MemorySharedTouringRepository) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.shared, id)
	return nil
}
