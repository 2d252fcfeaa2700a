package directions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"
	"touring-route-service/internal/domain"
	"touring-route-service/internal/platform/obs"
)

const defaultORSBaseURL = "https://api.openrouteservice.org"

// ORSDirectionsProvider implements DirectionsProvider using OpenRouteService.
//
// A request is sent as one coordinate list (origin, waypoints, destination)
// and every route segment becomes one leg. OpenRouteService has no
// departure-time aware driving profile, so durations do not depend on
// DepartureTime; it only takes part in cache keys.
//
// The provider is safe for concurrent use.
type ORSDirectionsProvider struct {
	client  *apiClient
	baseURL string
	profile string
}

func NewORSDirectionsProvider(apiKey string) (*ORSDirectionsProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	provider := &ORSDirectionsProvider{
		client:  newAPIClient(10*time.Second, map[string]string{"Authorization": apiKey}),
		baseURL: defaultORSBaseURL,
		profile: "driving-car",
	}

	return provider, nil
}

// WithBaseURL points the provider at another OpenRouteService instance.
func (o *ORSDirectionsProvider) WithBaseURL(baseURL string) *ORSDirectionsProvider {
	o.baseURL = baseURL
	return o
}

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
	Units       string      `json:"units"`
}

type directionsResponse struct {
	Routes []struct {
		Summary struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"summary"`
		Segments []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"segments"`
	} `json:"routes"`
}

func (o *ORSDirectionsProvider) Route(
	ctx context.Context,
	req domain.DirectionsRequest,
) (_ domain.DirectionsResult, err error) {
	defer obs.Time(ctx, "ors.Route")(&err)

	endpoint := fmt.Sprintf("%s/v2/directions/%s", o.baseURL, o.profile)

	coords := make([][]float64, 0, 2+len(req.Waypoints))
	coords = append(coords, req.Origin.CoordsToList())
	for _, w := range req.Waypoints {
		coords = append(coords, w.CoordsToList())
	}
	coords = append(coords, req.Destination.CoordsToList())

	payload, err := json.Marshal(directionsRequest{Coordinates: coords, Units: "m"})
	if err != nil {
		return domain.DirectionsResult{}, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := o.client.doWithRetry(ctx, func() (*http.Request, error) {
		return o.client.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return domain.DirectionsResult{}, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return domain.DirectionsResult{}, fmt.Errorf("decode directions response: %w", err)
	}

	if len(dr.Routes) == 0 {
		return domain.DirectionsResult{}, fmt.Errorf("no route from %s to %s", req.Origin, req.Destination)
	}

	route := dr.Routes[0]
	if len(route.Segments) != len(req.Waypoints)+1 {
		return domain.DirectionsResult{}, fmt.Errorf(
			"expected %d segments; got %d",
			len(req.Waypoints)+1, len(route.Segments),
		)
	}

	// ORS returns float metrics; round to nearest integer for domain consistency.
	legs := make([]domain.DirectionsLeg, 0, len(route.Segments))
	for _, s := range route.Segments {
		legs = append(legs, domain.DirectionsLeg{
			DistanceMeters:  int(math.Round(s.Distance)),
			DurationSeconds: int(math.Round(s.Duration)),
		})
	}

	return domain.DirectionsResult{
		Legs: legs,
		Summary: fmt.Sprintf("%.1f km, %d min",
			route.Summary.Distance/1000, int(math.Round(route.Summary.Duration/60))),
	}, nil
}
