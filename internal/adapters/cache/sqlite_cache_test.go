package cache

import (
	"context"
	"database/sql"
	"testing"
	"time"
	"touring-route-service/internal/domain"

	_ "modernc.org/sqlite"
)

func openSqlite(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := InitSqliteSchema(context.Background(), db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return db
}

func TestSqliteDirectionsCache(t *testing.T) {
	ctx := context.Background()
	c := NewSqliteDirectionsCache(openSqlite(t))
	req := directionsRequest(35.6, time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC))

	if _, ok, err := c.Get(ctx, req); ok || err != nil {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, req, domain.DirectionsResult{Legs: []domain.DirectionsLeg{{DurationSeconds: 60}}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	// Overwrite keeps a single row per key.
	if err := c.Set(ctx, req, domain.DirectionsResult{Legs: []domain.DirectionsLeg{{DurationSeconds: 120}}}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, ok, err := c.Get(ctx, req)
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if got.TotalDuration() != 2*time.Minute {
		t.Fatalf("duration = %v, want 2m", got.TotalDuration())
	}
}

func TestSqliteDisplayNameCache(t *testing.T) {
	ctx := context.Background()
	c := NewSqliteDisplayNameCache(openSqlite(t))

	if err := c.Put(ctx, " ", "x"); err == nil {
		t.Fatalf("expected error for empty key")
	}
	if err := c.Put(ctx, "ChIJ123", "Kiyomizu-dera"); err != nil {
		t.Fatalf("put: %v", err)
	}

	name, ok, err := c.Get(ctx, "ChIJ123")
	if err != nil || !ok || name != "Kiyomizu-dera" {
		t.Fatalf("got %q ok=%v err=%v", name, ok, err)
	}
	if _, ok, _ := c.Get(ctx, "missing"); ok {
		t.Fatalf("expected miss")
	}
}

func TestSqliteCacheNilDB(t *testing.T) {
	c := NewSqliteDirectionsCache(nil)
	if _, _, err := c.Get(context.Background(), domain.DirectionsRequest{}); err == nil {
		t.Fatalf("expected error for nil db")
	}
}
