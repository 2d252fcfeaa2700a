package directions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
	"touring-route-service/internal/domain"
	"touring-route-service/internal/platform/obs"
)

const defaultPlacesBaseURL = "https://places.googleapis.com/v1"

// GooglePlaceLookup resolves Spot display names with the Places API (New).
type GooglePlaceLookup struct {
	client  *apiClient
	baseURL string
}

func NewGooglePlaceLookup(apiKey string) (*GooglePlaceLookup, error) {
	if apiKey == "" {
		return nil, errors.New("google maps api key is empty")
	}

	return &GooglePlaceLookup{
		client: newAPIClient(5*time.Second, map[string]string{
			"X-Goog-Api-Key":   apiKey,
			"X-Goog-FieldMask": "displayName",
		}),
		baseURL: defaultPlacesBaseURL,
	}, nil
}

func (g *GooglePlaceLookup) WithBaseURL(baseURL string) *GooglePlaceLookup {
	g.baseURL = baseURL
	return g
}

type placeDetailsResponse struct {
	DisplayName struct {
		Text         string `json:"text"`
		LanguageCode string `json:"languageCode"`
	} `json:"displayName"`
}

func (g *GooglePlaceLookup) FetchDisplayName(ctx context.Context, placeID string) (_ string, err error) {
	defer obs.Time(ctx, "places.FetchDisplayName")(&err)

	endpoint := g.baseURL + "/places/" + url.PathEscape(placeID)

	resp, err := g.client.doWithRetry(ctx, func() (*http.Request, error) {
		return g.client.newRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) && he.Code == http.StatusNotFound {
			return "", fmt.Errorf("place %q: %w", placeID, domain.ErrNotFound)
		}
		return "", fmt.Errorf("place details request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded placeDetailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode place details: %w", err)
	}
	if decoded.DisplayName.Text == "" {
		return "", fmt.Errorf("place %q has no display name: %w", placeID, domain.ErrNotFound)
	}

	return decoded.DisplayName.Text, nil
}
