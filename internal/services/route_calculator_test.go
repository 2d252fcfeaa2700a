package services

import (
	"context"
	"errors"
	"testing"
	"time"
	"touring-route-service/internal/adapters/cache"
	"touring-route-service/internal/adapters/directions"
	"touring-route-service/internal/domain"
)

var (
	ptA = domain.LatLng{Lat: 35.0, Lng: 139.0}
	ptB = domain.LatLng{Lat: 35.1, Lng: 139.1}
	ptC = domain.LatLng{Lat: 35.2, Lng: 139.2}
	ptD = domain.LatLng{Lat: 35.3, Lng: 139.3}
	ptE = domain.LatLng{Lat: 35.4, Lng: 139.4}
	ptF = domain.LatLng{Lat: 35.5, Lng: 139.5}
)

var (
	departAt = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	calcedAt = time.Date(2026, 4, 30, 20, 0, 0, 0, time.UTC)
)

func minutes(n int) int { return n * 60 }

func newCalculator(provider *directions.MockDirectionsProvider, c *cache.MemoryDirectionsCache) *RouteCalculator {
	calc := NewRouteCalculator(provider, nil)
	if c != nil {
		calc.Cache = c
	}
	calc.Now = func() time.Time { return calcedAt }
	return calc
}

func place(id string, at domain.LatLng, stay int) domain.Place {
	p := domain.NewLocation(id, at)
	p.StayingTime = stay
	return p
}

func waypoint(id string, at domain.LatLng) domain.Place {
	p := domain.NewLocation(id, at)
	p.Waypoint = true
	return p
}

func routeOf(places ...domain.Place) *domain.Route {
	r := domain.NewRoute()
	r.Set(places)
	return r
}

func wantArrival(t *testing.T, r *domain.Route, p domain.Place, want time.Time) {
	t.Helper()
	got, ok := r.ArrivalTime(p)
	if !ok {
		t.Fatalf("no arrival time for %s", p.ID)
	}
	if !got.Equal(want) {
		t.Fatalf("arrival at %s = %s, want %s", p.ID, got.Format(time.TimeOnly), want.Format(time.TimeOnly))
	}
}

func TestCalcChainsDeparturesThroughStayingTime(t *testing.T) {
	provider := directions.NewMockDirectionsProvider()
	provider.SetLegs(ptA, minutes(30))
	provider.SetLegs(ptB, minutes(10))

	a, b, c := place("a", ptA, 10), place("b", ptB, 20), place("c", ptC, 10)
	r := routeOf(a, b, c)

	if err := newCalculator(provider, nil).Calc(context.Background(), r, departAt); err != nil {
		t.Fatalf("calc: %v", err)
	}

	reqs := provider.Requests()
	if len(reqs) != 2 {
		t.Fatalf("requests = %d, want 2", len(reqs))
	}
	if !reqs[0].DepartureTime.Equal(departAt) {
		t.Fatalf("first departure = %s", reqs[0].DepartureTime)
	}
	// 30 min drive plus 20 min at b.
	if !reqs[1].DepartureTime.Equal(departAt.Add(50 * time.Minute)) {
		t.Fatalf("second departure = %s, want 10:50", reqs[1].DepartureTime.Format(time.TimeOnly))
	}
	if reqs[1].Origin != ptB || reqs[1].Destination != ptC || len(reqs[1].Waypoints) != 0 {
		t.Fatalf("second request = %+v", reqs[1])
	}

	if _, ok := r.ArrivalTime(a); ok {
		t.Fatalf("origin must have no arrival time")
	}
	wantArrival(t, r, b, departAt.Add(30*time.Minute))
	wantArrival(t, r, c, departAt.Add(60*time.Minute))

	if res, ok := r.DirectionsResult(c); !ok || res.TotalDuration() != 10*time.Minute {
		t.Fatalf("directions for c = %+v ok=%v", res, ok)
	}
	if at, ok := r.CalcedAt(); !ok || !at.Equal(calcedAt) {
		t.Fatalf("calcedAt = %v ok=%v", at, ok)
	}
}

func TestCalcFoldsWaypointsIntoOneRequest(t *testing.T) {
	provider := directions.NewMockDirectionsProvider()
	provider.SetLegs(ptA, minutes(30), minutes(30), minutes(30))
	provider.SetLegs(ptD, minutes(20), minutes(20))

	a, b, c := place("a", ptA, 10), waypoint("b", ptB), waypoint("c", ptC)
	d, e, f := place("d", ptD, 10), waypoint("e", ptE), place("f", ptF, 10)
	r := routeOf(a, b, c, d, e, f)

	if err := newCalculator(provider, nil).Calc(context.Background(), r, departAt); err != nil {
		t.Fatalf("calc: %v", err)
	}

	reqs := provider.Requests()
	if len(reqs) != 2 {
		t.Fatalf("requests = %d, want 2", len(reqs))
	}
	first, second := reqs[0], reqs[1]
	if first.Origin != ptA || first.Destination != ptD || len(first.Waypoints) != 2 ||
		first.Waypoints[0] != ptB || first.Waypoints[1] != ptC {
		t.Fatalf("first request = %+v", first)
	}
	if second.Origin != ptD || second.Destination != ptF || len(second.Waypoints) != 1 || second.Waypoints[0] != ptE {
		t.Fatalf("second request = %+v", second)
	}
	if want := departAt.Add(100 * time.Minute); !second.DepartureTime.Equal(want) {
		t.Fatalf("second departure = %s, want 11:40", second.DepartureTime.Format(time.TimeOnly))
	}

	wantArrival(t, r, d, departAt.Add(90*time.Minute))
	wantArrival(t, r, f, departAt.Add(140*time.Minute))
	for _, wp := range []domain.Place{b, c, e} {
		if _, ok := r.ArrivalTime(wp); ok {
			t.Fatalf("waypoint %s must have no arrival time", wp.ID)
		}
		if _, ok := r.DirectionsResult(wp); ok {
			t.Fatalf("waypoint %s must have no directions", wp.ID)
		}
	}
}

func TestCalcTreatsTrailingWaypointAsEndpoint(t *testing.T) {
	provider := directions.NewMockDirectionsProvider()
	provider.SetLegs(ptA, minutes(15))
	provider.SetLegs(ptB, minutes(5))

	a, b, c := place("a", ptA, 10), place("b", ptB, 0), waypoint("c", ptC)
	r := routeOf(a, b, c)

	if err := newCalculator(provider, nil).Calc(context.Background(), r, departAt); err != nil {
		t.Fatalf("calc: %v", err)
	}

	if n := len(provider.Requests()); n != 2 {
		t.Fatalf("requests = %d, want 2", n)
	}
	wantArrival(t, r, c, departAt.Add(20*time.Minute))
}

func TestCalcReusesCachedLegs(t *testing.T) {
	provider := directions.NewMockDirectionsProvider()
	provider.SetLegs(ptA, minutes(30))
	provider.SetLegs(ptB, minutes(15))
	provider.SetLegs(ptC, minutes(25))

	calc := newCalculator(provider, cache.NewMemoryDirectionsCache(0))
	ctx := context.Background()

	a, b, c := place("a", ptA, 10), place("b", ptB, 10), place("c", ptC, 10)
	r := routeOf(a, b, c)
	if err := calc.Calc(ctx, r, departAt); err != nil {
		t.Fatalf("first calc: %v", err)
	}
	if n := len(provider.Requests()); n != 2 {
		t.Fatalf("requests after first calc = %d, want 2", n)
	}

	d := place("d", ptD, 10)
	r.Add(d)
	if err := calc.Calc(ctx, r, departAt); err != nil {
		t.Fatalf("second calc: %v", err)
	}

	reqs := provider.Requests()
	if len(reqs) != 3 {
		t.Fatalf("requests after second calc = %d, want 3", len(reqs))
	}
	last := reqs[2]
	if last.Origin != ptC || last.Destination != ptD {
		t.Fatalf("extra request = %+v", last)
	}
	// 30 + 10 + 15 + 10 minutes after departure.
	if want := departAt.Add(65 * time.Minute); !last.DepartureTime.Equal(want) {
		t.Fatalf("extra request departs %s, want 11:05", last.DepartureTime.Format(time.TimeOnly))
	}
	wantArrival(t, r, d, departAt.Add(90*time.Minute))
}

func TestCalcKeepsPartialResultsOnFailure(t *testing.T) {
	provider := directions.NewMockDirectionsProvider()
	provider.SetLegs(ptA, minutes(30))

	a, b, c := place("a", ptA, 10), place("b", ptB, 10), place("c", ptC, 10)
	r := routeOf(a, b, c)

	err := newCalculator(provider, nil).Calc(context.Background(), r, departAt)
	if err == nil {
		t.Fatalf("expected error for missing leg")
	}

	wantArrival(t, r, b, departAt.Add(30*time.Minute))
	if _, ok := r.ArrivalTime(c); ok {
		t.Fatalf("failed leg must not be recorded")
	}
	if _, ok := r.CalcedAt(); ok {
		t.Fatalf("calcedAt must stay unset after a failure")
	}
}

func TestCalcPropagatesProviderError(t *testing.T) {
	provider := directions.NewMockDirectionsProvider()
	boom := errors.New("quota exceeded")
	provider.FailWith(boom)

	r := routeOf(place("a", ptA, 10), place("b", ptB, 10))
	if err := newCalculator(provider, nil).Calc(context.Background(), r, departAt); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped provider error", err)
	}
}

func TestCalcShortRoutes(t *testing.T) {
	for _, places := range [][]domain.Place{nil, {place("a", ptA, 10)}} {
		provider := directions.NewMockDirectionsProvider()
		r := routeOf(places...)

		if err := newCalculator(provider, nil).Calc(context.Background(), r, departAt); err != nil {
			t.Fatalf("calc: %v", err)
		}
		if len(provider.Requests()) != 0 {
			t.Fatalf("no request expected for %d places", len(places))
		}
		if len(r.ArrivalTimes()) != 0 {
			t.Fatalf("no arrival times expected")
		}
		if _, ok := r.CalcedAt(); !ok {
			t.Fatalf("calcedAt must be set")
		}
	}
}

func TestCalcStopsOnCancelledContext(t *testing.T) {
	provider := directions.NewMockDirectionsProvider()
	provider.SetLegs(ptA, minutes(30))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := routeOf(place("a", ptA, 10), place("b", ptB, 10))
	if err := newCalculator(provider, nil).Calc(ctx, r, departAt); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(provider.Requests()) != 0 {
		t.Fatalf("no request expected after cancellation")
	}
}
