package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"touring-route-service/internal/domain"
)

// Initialize the Postgres database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createTouringsQuery := `
	CREATE TABLE IF NOT EXISTS tourings (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		publish BOOLEAN NOT NULL DEFAULT FALSE,
		shared_touring_id TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createTouringRoutesQuery := `
	CREATE TABLE IF NOT EXISTS touring_routes (
		touring_id TEXT NOT NULL REFERENCES tourings(id) ON DELETE CASCADE,
		departure TEXT NOT NULL,
		serialized TEXT NOT NULL,
		PRIMARY KEY (touring_id, departure)
	);
	`

	createSharedTouringsQuery := `
	CREATE TABLE IF NOT EXISTS shared_tourings (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		shared_by TEXT NOT NULL,
		touring JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createDirectionsCacheQuery := `
	CREATE TABLE IF NOT EXISTS directions_cache (
        cache_key TEXT PRIMARY KEY,
        result TEXT NOT NULL
    );
	`

	createDisplayNameCacheQuery := `
	CREATE TABLE IF NOT EXISTS display_name_cache (
        place_key TEXT PRIMARY KEY,
        display_name TEXT NOT NULL
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_tourings_user_updated
    ON tourings(user_id, updated_at DESC);
	`

	statements := []string{
		createTouringsQuery,
		createTouringRoutesQuery,
		createSharedTouringsQuery,
		createDirectionsCacheQuery,
		createDisplayNameCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type TouringSeed struct {
	Name    string             `json:"name"`
	Touring domain.TouringJSON `json:"touring"`
}

// Populate the database with demo tourings owned by userID from a JSON file.
func SeedFromJSON(ctx context.Context, repo *SQLTouringRepository, userID, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed tourings: read %q: %w", jsonPath, err)
	}

	var data []TouringSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed tourings: parse json: %w", err)
	}

	entities := make([]*domain.TouringEntity, 0, len(data))
	for i, item := range data {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return fmt.Errorf("seed tourings: item at index %d: name cannot be empty", i+1)
		}

		t := domain.NewRoutes(time.Now())
		if err := t.FromJSON(item.Touring); err != nil {
			return fmt.Errorf("seed tourings: item at index %d: %w", i+1, err)
		}
		routes, err := t.Serialize()
		if err != nil {
			return fmt.Errorf("seed tourings: item at index %d: %w", i+1, err)
		}
		entities = append(entities, &domain.TouringEntity{Name: name, Routes: routes})
	}

	for _, e := range entities {
		if _, err := repo.Store(ctx, userID, e); err != nil {
			return fmt.Errorf("seed tourings: store %q: %w", e.Name, err)
		}
	}

	return nil
}
