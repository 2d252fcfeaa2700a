package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
	"touring-route-service/internal/domain"
	"touring-route-service/internal/platform/obs"
	"touring-route-service/internal/ports"
)

// RouteCalculator computes directions and arrival times for a Route by
// chaining directions requests leg by leg.
type RouteCalculator struct {
	Provider ports.DirectionsProvider
	// Cache is consulted before every provider call. Optional.
	Cache ports.DirectionsCache
	Now   func() time.Time
}

func NewRouteCalculator(provider ports.DirectionsProvider, cache ports.DirectionsCache) *RouteCalculator {
	return &RouteCalculator{Provider: provider, Cache: cache, Now: time.Now}
}

// Calc computes the route starting at departureTime.
//
// The first place is the origin. Consecutive waypoints are folded into the
// request that ends at the next non-waypoint place; a waypoint in last
// position is treated as an endpoint. Every endpoint gets a directions
// result and an arrival time, and the next leg departs once the staying
// time at that endpoint has elapsed. Legs are computed strictly in order
// because each departure depends on the previous arrival.
//
// On failure the legs already computed stay recorded and the route is left
// without a calculation time.
func (c *RouteCalculator) Calc(ctx context.Context, route *domain.Route, departureTime time.Time) (err error) {
	defer obs.Time(ctx, "route.Calc")(&err)

	if c.Provider == nil {
		return errors.New("calc route: directions provider is nil")
	}
	if route == nil {
		return errors.New("calc route: route is nil")
	}

	route.ResetCalculated()
	places := route.Places()

	var (
		origin    *domain.LatLng
		waypoints []domain.LatLng
	)
	for i := 1; i < len(places); i++ {
		if places[i].Waypoint && i < len(places)-1 {
			waypoints = append(waypoints, places[i].LatLng)
			if origin == nil {
				origin = &places[i-1].LatLng
			}
			continue
		}
		if origin == nil {
			origin = &places[i-1].LatLng
		}

		if err := ctx.Err(); err != nil {
			return fmt.Errorf("calc route: %w", err)
		}

		req := domain.DirectionsRequest{
			Origin:        *origin,
			Destination:   places[i].LatLng,
			Waypoints:     waypoints,
			DepartureTime: departureTime,
		}
		if req.Waypoints == nil {
			req.Waypoints = []domain.LatLng{}
		}

		result, err := c.directions(ctx, req)
		if err != nil {
			return fmt.Errorf("calc route: leg to place %q: %w", places[i].ID, err)
		}

		arrival := departureTime.Add(result.TotalDuration())
		route.RecordLeg(places[i].ID, result, arrival)
		departureTime = arrival.Add(time.Duration(places[i].StayingTime) * time.Minute)

		waypoints = nil
		origin = nil
	}

	route.MarkCalculated(c.now())
	return nil
}

// directions returns the cached result of req or asks the provider.
// Cache failures degrade to a provider call.
func (c *RouteCalculator) directions(ctx context.Context, req domain.DirectionsRequest) (domain.DirectionsResult, error) {
	if c.Cache != nil {
		cached, ok, err := c.Cache.Get(ctx, req)
		if err != nil {
			log.Printf("req_id=%s directions cache read failed: %v", obs.RequestID(ctx), err)
		} else if ok {
			return cached, nil
		}
	}

	result, err := c.Provider.Route(ctx, req)
	if err != nil {
		return domain.DirectionsResult{}, err
	}

	if c.Cache != nil {
		if err := c.Cache.Set(ctx, req, result); err != nil {
			log.Printf("req_id=%s directions cache write failed: %v", obs.RequestID(ctx), err)
		}
	}

	return result, nil
}

func (c *RouteCalculator) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}
