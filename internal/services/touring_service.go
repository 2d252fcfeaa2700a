package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"time"
	"touring-route-service/internal/domain"
	"touring-route-service/internal/platform/obs"
	"touring-route-service/internal/ports"
)

// TouringInput is a touring as edited by a client: plain places per day.
type TouringInput struct {
	ID      string
	Name    string
	Publish bool
	Touring domain.TouringJSON
}

// TouringService stores tourings of users and calculates them server-side.
type TouringService struct {
	Repo       ports.TouringRepository
	Shared     ports.SharedTouringRepository
	Calculator *RouteCalculator
	Now        func() time.Time
}

func NewTouringService(
	repo ports.TouringRepository,
	shared ports.SharedTouringRepository,
	calc *RouteCalculator,
) *TouringService {
	return &TouringService{Repo: repo, Shared: shared, Calculator: calc, Now: time.Now}
}

// Save creates or updates a touring. Days whose places did not change keep
// their calculation results; any other day is stored uncalculated.
func (s *TouringService) Save(ctx context.Context, user domain.User, in TouringInput) (_ *domain.TouringEntity, err error) {
	defer obs.Time(ctx, "touring.Save")(&err)

	incoming := domain.NewRoutes(s.now())
	if err := incoming.FromJSON(in.Touring); err != nil {
		return nil, fmt.Errorf("save touring: %w", err)
	}

	routes, err := incoming.Serialize()
	if err != nil {
		return nil, fmt.Errorf("save touring: %w", err)
	}

	if in.ID != "" {
		// Tourings of other users are reported as not found, never forbidden.
		current, err := s.Repo.FindByID(ctx, user.ID, in.ID)
		if err != nil {
			return nil, fmt.Errorf("save touring: %w", err)
		}
		previous, err := current.Touring(s.now())
		if err != nil {
			return nil, fmt.Errorf("save touring: stored touring: %w", err)
		}
		if err := keepUnchangedDays(routes, incoming, previous); err != nil {
			return nil, fmt.Errorf("save touring: %w", err)
		}
	}

	entity := &domain.TouringEntity{
		ID:      in.ID,
		Name:    in.Name,
		Publish: in.Publish,
		Routes:  routes,
	}
	stored, err := s.Repo.Store(ctx, user.ID, entity)
	if err != nil {
		return nil, fmt.Errorf("save touring: %w", err)
	}
	return stored, nil
}

// keepUnchangedDays keeps the stored calculation of every day whose stops
// did not move. The places themselves always come from incoming, so edits
// to display names or icons are saved.
func keepUnchangedDays(routes map[string]string, incoming, previous *domain.Touring) error {
	var err error
	incoming.Each(func(departure time.Time, r *domain.Route) {
		if err != nil {
			return
		}
		before, ok := previous.FindByDepartureDateTime(departure)
		if !ok || !slices.EqualFunc(before.Places(), r.Places(), samePlace) {
			return
		}

		before.Set(r.Places())
		serialized, serr := before.Serialize()
		if serr != nil {
			err = fmt.Errorf("day %s: %w", domain.FormatDepartureKey(departure), serr)
			return
		}
		routes[domain.FormatDepartureKey(departure)] = serialized
	})
	return err
}

// samePlace compares the fields a calculation depends on.
func samePlace(a, b domain.Place) bool {
	return a.ID == b.ID &&
		a.LatLng == b.LatLng &&
		a.StayingTime == b.StayingTime &&
		a.Waypoint == b.Waypoint &&
		equalPtr(a.PlaceID, b.PlaceID)
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// All returns the tourings of the user without their routes.
func (s *TouringService) All(ctx context.Context, user domain.User) ([]*domain.TouringEntity, error) {
	return s.Repo.FindAllByUser(ctx, user.ID)
}

// Get returns the stored touring and its restored aggregate.
func (s *TouringService) Get(ctx context.Context, user domain.User, id string) (*domain.TouringEntity, *domain.Touring, error) {
	entity, err := s.Repo.FindByID(ctx, user.ID, id)
	if err != nil {
		return nil, nil, err
	}
	touring, err := entity.Touring(s.now())
	if err != nil {
		return nil, nil, fmt.Errorf("get touring %s: %w", id, err)
	}
	return entity, touring, nil
}

// Remove deletes the touring and unpublishes its shared copy.
func (s *TouringService) Remove(ctx context.Context, user domain.User, id string) (err error) {
	defer obs.Time(ctx, "touring.Remove")(&err)

	entity, err := s.Repo.FindByID(ctx, user.ID, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Remove(ctx, user.ID, id); err != nil {
		return err
	}

	if s.Shared != nil && entity.SharedTouringID != "" {
		if err := s.Shared.Remove(ctx, entity.SharedTouringID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			log.Printf("req_id=%s touring_id=%s unpublish failed: %v", obs.RequestID(ctx), id, err)
		}
	}
	return nil
}

// Calculate computes every day of a stored touring, stores the results and
// returns the arrival times. Nothing is stored when a day fails.
func (s *TouringService) Calculate(ctx context.Context, user domain.User, id string) (_ domain.ArrivalTimeJSON, err error) {
	defer obs.Time(ctx, "touring.Calculate")(&err)

	if s.Calculator == nil {
		return nil, errors.New("calculate touring: calculator is nil")
	}

	entity, touring, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}

	if err := s.Calculator.CalculateTouring(ctx, touring); err != nil {
		return nil, fmt.Errorf("calculate touring %s: %w", id, err)
	}

	routes, err := touring.Serialize()
	if err != nil {
		return nil, fmt.Errorf("calculate touring %s: %w", id, err)
	}
	entity.Routes = routes

	if _, err := s.Repo.Store(ctx, user.ID, entity); err != nil {
		return nil, fmt.Errorf("calculate touring %s: %w", id, err)
	}

	return touring.ArrivalTimeJSON(), nil
}

func (s *TouringService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
