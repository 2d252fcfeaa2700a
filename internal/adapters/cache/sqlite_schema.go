package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InitSqliteSchema creates the cache tables in a SQLite database.
func InitSqliteSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init sqlite schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init sqlite schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`
	CREATE TABLE IF NOT EXISTS directions_cache (
        cache_key TEXT PRIMARY KEY,
        result TEXT NOT NULL
    );
	`,
		`
	CREATE TABLE IF NOT EXISTS display_name_cache (
        place_key TEXT PRIMARY KEY,
        display_name TEXT NOT NULL
    );
	`,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init sqlite schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init sqlite schema: commit tx: %w", err)
	}

	return nil
}
