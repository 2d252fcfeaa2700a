package services

import (
	"context"
	"fmt"
	"time"
	"touring-route-service/internal/domain"
	"touring-route-service/internal/platform/obs"

	"golang.org/x/sync/errgroup"
)

// maxParallelDays bounds the number of days calculated at once.
const maxParallelDays = 4

// CalculateTouring calculates every day of the touring, each departing at
// its own departure instant. Days share no state besides the cache, so they
// run concurrently; the first failure cancels the remaining days.
func (c *RouteCalculator) CalculateTouring(ctx context.Context, touring *domain.Touring) (err error) {
	defer obs.Time(ctx, "touring.Calc")(&err)

	type day struct {
		departure time.Time
		route     *domain.Route
	}
	days := make([]day, 0, touring.Len())
	touring.Each(func(departure time.Time, r *domain.Route) {
		days = append(days, day{departure: departure, route: r})
	})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelDays)
	for _, d := range days {
		g.Go(func() error {
			if err := c.Calc(gctx, d.route, d.departure); err != nil {
				return fmt.Errorf("day %s: %w", domain.FormatDepartureKey(d.departure), err)
			}
			return nil
		})
	}

	return g.Wait()
}
