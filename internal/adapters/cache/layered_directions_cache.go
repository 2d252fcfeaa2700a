package cache

import (
	"context"
	"log"
	"touring-route-service/internal/domain"
	"touring-route-service/internal/platform/obs"
	"touring-route-service/internal/ports"
)

// LayeredDirectionsCache puts a memory cache in front of a persistent one.
// Reads fill the memory layer; failures of the persistent layer are logged
// and reported as a miss.
type LayeredDirectionsCache struct {
	Memory     *MemoryDirectionsCache
	Persistent ports.DirectionsCache
}

func NewLayeredDirectionsCache(memory *MemoryDirectionsCache, persistent ports.DirectionsCache) *LayeredDirectionsCache {
	return &LayeredDirectionsCache{Memory: memory, Persistent: persistent}
}

func (l *LayeredDirectionsCache) Get(ctx context.Context, req domain.DirectionsRequest) (domain.DirectionsResult, bool, error) {
	if r, ok, _ := l.Memory.Get(ctx, req); ok {
		return r, true, nil
	}
	if l.Persistent == nil {
		return domain.DirectionsResult{}, false, nil
	}

	r, ok, err := l.Persistent.Get(ctx, req)
	if err != nil {
		log.Printf("req_id=%s layered cache: persistent read failed: %v", obs.RequestID(ctx), err)
		return domain.DirectionsResult{}, false, nil
	}
	if ok {
		_ = l.Memory.Set(ctx, req, r)
	}
	return r, ok, nil
}

func (l *LayeredDirectionsCache) Set(ctx context.Context, req domain.DirectionsRequest, result domain.DirectionsResult) error {
	_ = l.Memory.Set(ctx, req, result)
	if l.Persistent == nil {
		return nil
	}
	if err := l.Persistent.Set(ctx, req, result); err != nil {
		log.Printf("req_id=%s layered cache: persistent write failed: %v", obs.RequestID(ctx), err)
	}
	return nil
}
