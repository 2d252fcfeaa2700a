package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"touring-route-service/internal/platform/obs"
)

// SQLDisplayNameCache is a Postgres-backed cache mapping place keys to
// display names.
type SQLDisplayNameCache struct {
	DB *sql.DB
}

func NewSQLDisplayNameCache(db *sql.DB) *SQLDisplayNameCache {
	return &SQLDisplayNameCache{DB: db}
}

func (s *SQLDisplayNameCache) Get(ctx context.Context, key string) (_ string, _ bool, err error) {
	defer obs.Time(ctx, "displayname.cache.Get")(&err)

	if s.DB == nil {
		return "", false, errors.New("display name cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", false, nil
	}

	var name string
	err = s.DB.QueryRowContext(ctx, `
	SELECT display_name
    FROM display_name_cache
    WHERE place_key = $1;
	`, key).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get display name cache: query display_name_cache table: %w", err)
	}

	return name, true, nil
}

func (s *SQLDisplayNameCache) Put(ctx context.Context, key, name string) error {
	if s.DB == nil {
		return errors.New("display name cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("insert display name cache: empty place key")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO display_name_cache (place_key, display_name)
    VALUES ($1, $2)
	ON CONFLICT (place_key) DO UPDATE
	SET display_name = EXCLUDED.display_name;
	`, strings.TrimSpace(key), name)
	if err != nil {
		return fmt.Errorf("insert display name cache key=%q: %w", key, err)
	}

	return nil
}
