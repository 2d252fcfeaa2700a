package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"touring-route-service/internal/domain"
	"touring-route-service/internal/platform/obs"

	"github.com/google/uuid"
)

// Postgres-backed implementation of the TouringRepository port. Each day
// of a touring is one touring_routes row holding the serialized route.
type SQLTouringRepository struct{ DB *sql.DB }

func NewSQLTouringRepository(db *sql.DB) *SQLTouringRepository {
	return &SQLTouringRepository{DB: db}
}

// Create the touring when it has no id, otherwise update it.
func (s *SQLTouringRepository) Store(
	ctx context.Context,
	userID string,
	entity *domain.TouringEntity,
) (_ *domain.TouringEntity, err error) {
	defer obs.Time(ctx, "touring.repo.Store")(&err)

	if s.DB == nil {
		return nil, errors.New("sql touring repository: DB is nil")
	}
	if entity == nil {
		return nil, errors.New("store touring: entity is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store touring: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	out := *entity
	if out.ID == "" {
		err = s.create(ctx, tx, userID, &out)
	} else {
		err = s.update(ctx, tx, userID, &out)
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store touring: commit tx: %w", err)
	}

	return &out, nil
}

func (s *SQLTouringRepository) create(ctx context.Context, tx *sql.Tx, userID string, e *domain.TouringEntity) error {
	e.ID = uuid.NewString()
	e.SharedTouringID = uuid.NewString()

	var createdAt, updatedAt time.Time
	err := tx.QueryRowContext(ctx, `
	INSERT INTO tourings (id, user_id, name, publish, shared_touring_id)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at, updated_at;
	`, e.ID, userID, e.Name, e.Publish, e.SharedTouringID).Scan(&createdAt, &updatedAt)
	if err != nil {
		return fmt.Errorf("create touring: insert tourings row: %w", err)
	}
	e.CreatedAt, e.UpdatedAt = &createdAt, &updatedAt

	for departure, serialized := range e.Routes {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO touring_routes (touring_id, departure, serialized)
		VALUES ($1, $2, $3);
		`, e.ID, departure, serialized); err != nil {
			return fmt.Errorf("create touring: insert route %s: %w", departure, err)
		}
	}

	return nil
}

func (s *SQLTouringRepository) update(ctx context.Context, tx *sql.Tx, userID string, e *domain.TouringEntity) error {
	var owner string
	err := tx.QueryRowContext(ctx, `
	SELECT user_id FROM tourings WHERE id = $1 FOR UPDATE;
	`, e.ID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update touring %s: %w", e.ID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update touring: lock row: %w", err)
	}
	if owner != userID {
		return fmt.Errorf("update touring %s: %w", e.ID, domain.ErrForbidden)
	}

	var createdAt, updatedAt time.Time
	err = tx.QueryRowContext(ctx, `
	UPDATE tourings
	SET name = $2, publish = $3, updated_at = now()
	WHERE id = $1
	RETURNING shared_touring_id, created_at, updated_at;
	`, e.ID, e.Name, e.Publish).Scan(&e.SharedTouringID, &createdAt, &updatedAt)
	if err != nil {
		return fmt.Errorf("update touring: update tourings row: %w", err)
	}
	e.CreatedAt, e.UpdatedAt = &createdAt, &updatedAt

	current, err := loadRoutes(ctx, tx, e.ID)
	if err != nil {
		return fmt.Errorf("update touring: %w", err)
	}

	for departure := range current {
		if _, keep := e.Routes[departure]; keep {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
		DELETE FROM touring_routes WHERE touring_id = $1 AND departure = $2;
		`, e.ID, departure); err != nil {
			return fmt.Errorf("update touring: delete route %s: %w", departure, err)
		}
	}

	for departure, serialized := range e.Routes {
		before, exists := current[departure]
		if exists && before == serialized {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO touring_routes (touring_id, departure, serialized)
		VALUES ($1, $2, $3)
		ON CONFLICT (touring_id, departure) DO UPDATE
		SET serialized = EXCLUDED.serialized;
		`, e.ID, departure, serialized); err != nil {
			return fmt.Errorf("update touring: upsert route %s: %w", departure, err)
		}
	}

	return nil
}

// Return the touring with its routes. Tourings of other users are reported
// as not found.
func (s *SQLTouringRepository) FindByID(
	ctx context.Context,
	userID, id string,
) (_ *domain.TouringEntity, err error) {
	defer obs.Time(ctx, "touring.repo.FindByID")(&err)

	if s.DB == nil {
		return nil, errors.New("sql touring repository: DB is nil")
	}

	e := &domain.TouringEntity{}
	var createdAt, updatedAt time.Time
	err = s.DB.QueryRowContext(ctx, `
	SELECT id, name, publish, shared_touring_id, created_at, updated_at
	FROM tourings
	WHERE id = $1 AND user_id = $2;
	`, id, userID).Scan(&e.ID, &e.Name, &e.Publish, &e.SharedTouringID, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find touring %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find touring: query tourings table: %w", err)
	}
	e.CreatedAt, e.UpdatedAt = &createdAt, &updatedAt

	e.Routes, err = loadRoutes(ctx, s.DB, id)
	if err != nil {
		return nil, fmt.Errorf("find touring: %w", err)
	}

	return e, nil
}

// Return every touring of the user, most recently updated first, without
// routes.
func (s *SQLTouringRepository) FindAllByUser(
	ctx context.Context,
	userID string,
) (_ []*domain.TouringEntity, err error) {
	defer obs.Time(ctx, "touring.repo.FindAllByUser")(&err)

	if s.DB == nil {
		return nil, errors.New("sql touring repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT id, name, publish, shared_touring_id, created_at, updated_at
	FROM tourings
	WHERE user_id = $1
	ORDER BY updated_at DESC;
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list tourings: query tourings table: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.TouringEntity, 0, 16)
	for rows.Next() {
		e := &domain.TouringEntity{}
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&e.ID, &e.Name, &e.Publish, &e.SharedTouringID, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("list tourings: scan row: %w", err)
		}
		e.CreatedAt, e.UpdatedAt = &createdAt, &updatedAt
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tourings: row iteration: %w", err)
	}

	return out, nil
}

// Delete the touring and its routes. Absent tourings and tourings of other
// users are reported as not found.
func (s *SQLTouringRepository) Remove(ctx context.Context, userID, id string) (err error) {
	defer obs.Time(ctx, "touring.repo.Remove")(&err)

	if s.DB == nil {
		return errors.New("sql touring repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `
	DELETE FROM tourings WHERE id = $1 AND user_id = $2;
	`, id, userID)
	if err != nil {
		return fmt.Errorf("remove touring: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove touring: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("remove touring %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func loadRoutes(ctx context.Context, q queryer, touringID string) (map[string]string, error) {
	rows, err := q.QueryContext(ctx, `
	SELECT departure, serialized
	FROM touring_routes
	WHERE touring_id = $1;
	`, touringID)
	if err != nil {
		return nil, fmt.Errorf("query touring_routes table: %w", err)
	}
	defer rows.Close()

	routes := map[string]string{}
	for rows.Next() {
		var departure, serialized string
		if err := rows.Scan(&departure, &serialized); err != nil {
			return nil, fmt.Errorf("scan route row: %w", err)
		}
		routes[departure] = serialized
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("route row iteration: %w", err)
	}

	return routes, nil
}
