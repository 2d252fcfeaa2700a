package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"touring-route-service/internal/domain"
	"touring-route-service/internal/platform/obs"
)

// SQLDirectionsCache is a Postgres-backed cache of directions results keyed
// by domain.DirectionsKey. Results are stored as JSON text.
type SQLDirectionsCache struct {
	DB *sql.DB
}

func NewSQLDirectionsCache(db *sql.DB) *SQLDirectionsCache {
	return &SQLDirectionsCache{DB: db}
}

func (s *SQLDirectionsCache) Get(
	ctx context.Context,
	req domain.DirectionsRequest,
) (_ domain.DirectionsResult, _ bool, err error) {
	defer obs.Time(ctx, "directions.cache.Get")(&err)

	if s.DB == nil {
		return domain.DirectionsResult{}, false, errors.New("directions cache: db is nil")
	}

	q := `
	SELECT result
    FROM directions_cache
    WHERE cache_key = $1;
	`

	var raw string
	err = s.DB.QueryRowContext(ctx, q, domain.DirectionsKey(req)).Scan(&raw)
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

func (s *SQLDirectionsCache) Set(
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
	INSERT INTO directions_cache (cache_key, result)
    VALUES ($1, $2)
	ON CONFLICT (cache_key) DO UPDATE
	SET result = EXCLUDED.result;
	`, domain.DirectionsKey(req), string(raw))
	if err != nil {
		return fmt.Errorf("insert directions cache: %w", err)
	}

	return nil
}
