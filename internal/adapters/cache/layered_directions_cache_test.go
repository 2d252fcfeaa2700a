package cache

import (
	"context"
	"errors"
	"testing"
	"time"
	"touring-route-service/internal/domain"
)

type failingCache struct{ gets, sets int }

func (f *failingCache) Get(context.Context, domain.DirectionsRequest) (domain.DirectionsResult, bool, error) {
	f.gets++
	return domain.DirectionsResult{}, false, errors.New("connection refused")
}

func (f *failingCache) Set(context.Context, domain.DirectionsRequest, domain.DirectionsResult) error {
	f.sets++
	return errors.New("connection refused")
}

func TestLayeredDirectionsCacheFillsMemoryFromPersistent(t *testing.T) {
	ctx := context.Background()
	persistent := NewMemoryDirectionsCache(0)
	req := directionsRequest(35.6, time.Unix(100, 0))
	_ = persistent.Set(ctx, req, domain.DirectionsResult{Summary: "stored"})

	mem := NewMemoryDirectionsCache(0)
	l := NewLayeredDirectionsCache(mem, persistent)

	got, ok, err := l.Get(ctx, req)
	if err != nil || !ok || got.Summary != "stored" {
		t.Fatalf("got %+v ok=%v err=%v", got, ok, err)
	}
	if mem.Len() != 1 {
		t.Fatalf("memory layer not filled")
	}
}

func TestLayeredDirectionsCacheIgnoresPersistentFailures(t *testing.T) {
	ctx := context.Background()
	f := &failingCache{}
	l := NewLayeredDirectionsCache(NewMemoryDirectionsCache(0), f)
	req := directionsRequest(35.6, time.Unix(100, 0))

	if _, ok, err := l.Get(ctx, req); ok || err != nil {
		t.Fatalf("expected quiet miss, ok=%v err=%v", ok, err)
	}
	if err := l.Set(ctx, req, domain.DirectionsResult{Summary: "x"}); err != nil {
		t.Fatalf("set should not fail: %v", err)
	}
	if _, ok, _ := l.Get(ctx, req); !ok {
		t.Fatalf("memory layer should answer after set")
	}
	if f.gets != 1 || f.sets != 1 {
		t.Fatalf("persistent calls gets=%d sets=%d", f.gets, f.sets)
	}
}
