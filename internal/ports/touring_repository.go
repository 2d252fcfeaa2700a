package ports

import (
	"context"
	"touring-route-service/internal/domain"
)

// Port: a boundary for storing tourings owned by users.
type TouringRepository interface {
	// Create the touring when it has no id, otherwise update it.
	// Updating a touring owned by someone else fails with domain.ErrForbidden.
	Store(ctx context.Context, userID string, entity *domain.TouringEntity) (*domain.TouringEntity, error)
	// Return the touring with its routes, or domain.ErrNotFound when it does
	// not exist or belongs to another user.
	FindByID(ctx context.Context, userID, id string) (*domain.TouringEntity, error)
	// Return every touring of the user without routes.
	FindAllByUser(ctx context.Context, userID string) ([]*domain.TouringEntity, error)
	Remove(ctx context.Context, userID, id string) error
}

// Port: a boundary for published tourings.
type SharedTouringRepository interface {
	Store(ctx context.Context, entity *domain.SharedTouringEntity) error
	// Return domain.ErrNotFound when no touring is published under id.
	FindByID(ctx context.Context, id string) (*domain.SharedTouringEntity, error)
	Remove(ctx context.Context, id string) error
}
