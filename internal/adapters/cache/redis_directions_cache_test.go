package cache

import (
	"context"
	"testing"
	"time"
	"touring-route-service/internal/domain"

	"github.com/alicebob/miniredis/v2"
)

func TestRedisDirectionsCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	c, err := NewRedisDirectionsCache(ctx, mr.Addr(), "", 0, time.Hour)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer c.Close()

	req := directionsRequest(35.6, time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC))
	if _, ok, err := c.Get(ctx, req); ok || err != nil {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}

	want := domain.DirectionsResult{
		Legs:    []domain.DirectionsLeg{{DistanceMeters: 5000, DurationSeconds: 420}, {DistanceMeters: 100, DurationSeconds: 30}},
		Summary: "5.1 km, 8 min",
	}
	if err := c.Set(ctx, req, want); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := c.Get(ctx, req)
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if len(got.Legs) != 2 || got.TotalDuration() != 450*time.Second || got.Summary != want.Summary {
		t.Fatalf("got %+v", got)
	}

	key := defaultRedisPrefix + domain.DirectionsKey(req)
	if !mr.Exists(key) {
		t.Fatalf("key %q not stored", key)
	}

	mr.FastForward(2 * time.Hour)
	if _, ok, _ := c.Get(ctx, req); ok {
		t.Fatalf("entry should expire after ttl")
	}
}

func TestRedisDirectionsCacheConnectFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := NewRedisDirectionsCache(context.Background(), addr, "", 0, 0); err == nil {
		t.Fatalf("expected connection error")
	}
}
