package services

import (
	"context"
	"fmt"
	"time"
	"touring-route-service/internal/domain"
	"touring-route-service/internal/platform/obs"
	"touring-route-service/internal/ports"
)

// SharedService publishes tourings under their shared id.
type SharedService struct {
	Tourings ports.TouringRepository
	Shared   ports.SharedTouringRepository
}

func NewSharedService(tourings ports.TouringRepository, shared ports.SharedTouringRepository) *SharedService {
	return &SharedService{Tourings: tourings, Shared: shared}
}

// Share publishes the user's touring with the given arrival times. When
// arrivals is nil the arrival times stored with the touring are used.
func (s *SharedService) Share(
	ctx context.Context,
	user domain.User,
	touringID string,
	arrivals domain.ArrivalTimeJSON,
) (_ *domain.SharedTouringEntity, err error) {
	defer obs.Time(ctx, "shared.Share")(&err)

	entity, err := s.Tourings.FindByID(ctx, user.ID, touringID)
	if err != nil {
		return nil, err
	}
	touring, err := entity.Touring(time.Now())
	if err != nil {
		return nil, fmt.Errorf("share touring %s: %w", touringID, err)
	}
	if arrivals == nil {
		arrivals = touring.ArrivalTimeJSON()
	}

	shared, err := domain.BuildSharedTouring(user, entity, touring.ToJSON(), arrivals)
	if err != nil {
		return nil, fmt.Errorf("share touring %s: %w", touringID, err)
	}
	if err := s.Shared.Store(ctx, shared); err != nil {
		return nil, fmt.Errorf("share touring %s: %w", touringID, err)
	}
	return shared, nil
}

// Get returns a published touring. It needs no user.
func (s *SharedService) Get(ctx context.Context, id string) (*domain.SharedTouringEntity, error) {
	return s.Shared.FindByID(ctx, id)
}
