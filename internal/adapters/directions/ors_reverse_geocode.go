package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"touring-route-service/internal/domain"
	"touring-route-service/internal/platform/obs"
)

type reverseGeocodeResponse struct {
	Features []struct {
		Properties struct {
			Label string `json:"label"`
			Name  string `json:"name"`
		} `json:"properties"`
	} `json:"features"`
}

// ReverseGeocode returns a human readable label for a coordinate using
// OpenRouteService (/geocode/reverse). It names Locations, which carry no
// place id.
func (o *ORSDirectionsProvider) ReverseGeocode(
	ctx context.Context,
	at domain.LatLng,
) (_ string, err error) {
	defer obs.Time(ctx, "ors.ReverseGeocode")(&err)

	endpoint := o.baseURL + "/geocode/reverse"

	resp, err := o.client.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.client.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("point.lat", strconv.FormatFloat(at.Lat, 'f', -1, 64))
		q.Set("point.lon", strconv.FormatFloat(at.Lng, 'f', -1, 64))
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded reverseGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode reverse geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return "", fmt.Errorf("no reverse geocode results for %s: %w", at, domain.ErrNotFound)
	}

	props := decoded.Features[0].Properties
	if props.Label != "" {
		return props.Label, nil
	}
	return props.Name, nil
}
