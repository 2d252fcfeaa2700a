package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SQLite backed cache mapping place keys to display names.
type SqliteDisplayNameCache struct {
	DB *sql.DB
}

func NewSqliteDisplayNameCache(db *sql.DB) *SqliteDisplayNameCache {
	return &SqliteDisplayNameCache{DB: db}
}

func (s *SqliteDisplayNameCache) Get(ctx context.Context, key string) (string, bool, error) {
	if s.DB == nil {
		return "", false, errors.New("display name cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", false, nil
	}

	var name string
	err := s.DB.QueryRowContext(ctx, `
	SELECT display_name
    FROM display_name_cache
    WHERE place_key = ?;
	`, key).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get display name cache: query display_name_cache table: %w", err)
	}

	return name, true, nil
}

func (s *SqliteDisplayNameCache) Put(ctx context.Context, key, name string) error {
	if s.DB == nil {
		return errors.New("display name cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("insert display name cache: empty place key")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO display_name_cache (
        place_key,
        display_name
    )
    VALUES (?, ?);
	`, key, name)
	if err != nil {
		return fmt.Errorf("insert display name cache key=%q: %w", key, err)
	}

	return nil
}
