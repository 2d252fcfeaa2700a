package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"touring-route-service/internal/domain"
)

// SQLite backed cache of directions results, used for local runs without
// Postgres. The schema is created by InitSqliteSchema.
type SqliteDirectionsCache struct {
	DB *sql.DB
}

func NewSqliteDirectionsCache(db *sql.DB) *SqliteDirectionsCache {
	return &SqliteDirectionsCache{DB: db}
}

func (s *SqliteDirectionsCache) Get(
	ctx context.Context,
	req domain.DirectionsRequest,
) (domain.DirectionsResult, bool, error) {
	if s.DB == nil {
		return domain.DirectionsResult{}, false, errors.New("directions cache: db is nil")
	}

	var raw string
	err := s.DB.QueryRowContext(ctx, `
	SELECT result
    FROM directions_cache
    WHERE cache_key = ?;
	`, domain.DirectionsKey(req)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DirectionsResult{}, false, nil
	}
	if err != nil {
		return domain.DirectionsResult{}, false, fmt.Errorf("get directions cache: query directions_cache table: %w", err)
	}

	var result domain.DirectionsResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return domain.DirectionsResult{}, false, fmt.Errorf("get directions cache: decode result: %w", err)
	}

	return result, true, nil
}

func (s *SqliteDirectionsCache) Set(
	ctx context.Context,
	req domain.DirectionsRequest,
	result domain.DirectionsResult,
) error {
	if s.DB == nil {
		return errors.New("directions cache: db is nil")
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("insert directions cache: encode result: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO directions_cache (
        cache_key,
        result
    )
    VALUES (?, ?);
	`, domain.DirectionsKey(req), string(raw))
	if err != nil {
		return fmt.Errorf("insert directions cache: %w", err)
	}

	return nil
}
