package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"touring-route-service/internal/domain"
	"touring-route-service/internal/platform/obs"
)

// Postgres-backed implementation of the SharedTouringRepository port.
type SQLSharedTouringRepository struct{ DB *sql.DB }

func NewSQLSharedTouringRepository(db *sql.DB) *SQLSharedTouringRepository {
	return &SQLSharedTouringRepository{DB: db}
}

// Store publishes the touring under its id, replacing an earlier version.
func (s *SQLSharedTouringRepository) Store(ctx context.Context, entity *domain.SharedTouringEntity) (err error) {
	defer obs.Time(ctx, "shared.repo.Store")(&err)

	if s.DB == nil {
		return errors.New("sql shared touring repository: DB is nil")
	}
	if entity == nil || entity.ID == "" {
		return errors.New("store shared touring: id is required")
	}

	touring, err := json.Marshal(entity.Touring)
	if err != nil {
		return fmt.Errorf("store shared touring: encode touring: %w", err)
	}

	var createdAt, updatedAt time.Time
	err = s.DB.QueryRowContext(ctx, `
	INSERT INTO shared_tourings (id, name, shared_by, touring)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		shared_by = EXCLUDED.shared_by,
		touring = EXCLUDED.touring,
		updated_at = now()
	RETURNING created_at, updated_at;
	`, entity.ID, entity.Name, entity.SharedBy, string(touring)).Scan(&createdAt, &updatedAt)
	if err != nil {
		return fmt.Errorf("store shared touring: upsert: %w", err)
	}
	entity.CreatedAt, entity.UpdatedAt = &createdAt, &updatedAt

	return nil
}

func (s *SQLSharedTouringRepository) FindByID(ctx context.Context, id string) (_ *domain.SharedTouringEntity, err error) {
	defer obs.Time(ctx, "shared.repo.FindByID")(&err)

	if s.DB == nil {
		return nil, errors.New("sql shared touring repository: DB is nil")
	}

	e := &domain.SharedTouringEntity{}
	var raw string
	var createdAt, updatedAt time.Time
	err = s.DB.QueryRowContext(ctx, `
	SELECT id, name, shared_by, touring::text, created_at, updated_at
	FROM shared_tourings
	WHERE id = $1;
	`, id).Scan(&e.ID, &e.Name, &e.SharedBy, &raw, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find shared touring %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find shared touring: query shared_tourings table: %w", err)
	}
	e.CreatedAt, e.UpdatedAt = &createdAt, &updatedAt

	if err := json.Unmarshal([]byte(raw), &e.Touring); err != nil {
		return nil, fmt.Errorf("find shared touring: decode touring: %w", err)
	}

	return e, nil
}

func (s *SQLSharedTouringRepository) Remove(ctx context.Context, id string) (err error) {
	defer obs.Time(ctx, "shared.repo.Remove")(&err)

	if s.DB == nil {
		return errors.New("sql shared touring repository: DB is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM shared_tourings WHERE id = $1;`, id); err != nil {
		return fmt.Errorf("remove shared touring: %w", err)
	}
	return nil
}
