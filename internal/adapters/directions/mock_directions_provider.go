package directions

import (
	"context"
	"fmt"
	"sync"
	"touring-route-service/internal/domain"
)

// MockDirectionsProvider answers directions requests from a table keyed by
// the request origin and records every request it receives.
type MockDirectionsProvider struct {
	mu       sync.Mutex
	legs     map[string][]domain.DirectionsLeg
	err      error
	requests []domain.DirectionsRequest
}

func NewMockDirectionsProvider() *MockDirectionsProvider {
	return &MockDirectionsProvider{legs: map[string][]domain.DirectionsLeg{}}
}

// SetLegs registers the legs returned for requests leaving origin.
func (p *MockDirectionsProvider) SetLegs(origin domain.LatLng, durationsSeconds ...int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	legs := make([]domain.DirectionsLeg, 0, len(durationsSeconds))
	for _, s := range durationsSeconds {
		legs = append(legs, domain.DirectionsLeg{DurationSeconds: s, DistanceMeters: s * 10})
	}
	p.legs[origin.String()] = legs
}

// FailWith makes every following request fail with err.
func (p *MockDirectionsProvider) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *MockDirectionsProvider) Route(ctx context.Context, req domain.DirectionsRequest) (domain.DirectionsResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.requests = append(p.requests, req)
	if p.err != nil {
		return domain.DirectionsResult{}, p.err
	}

	legs, ok := p.legs[req.Origin.String()]
	if !ok {
		return domain.DirectionsResult{}, fmt.Errorf("missing legs from %s", req.Origin)
	}
	return domain.DirectionsResult{Legs: legs}, nil
}

// Requests returns the requests received so far, in order.
func (p *MockDirectionsProvider) Requests() []domain.DirectionsRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.DirectionsRequest(nil), p.requests...)
}
