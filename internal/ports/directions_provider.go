package ports

import (
	"context"
	"touring-route-service/internal/domain"
)

// Contract for retrieving driving directions between locations.
type DirectionsProvider interface {
	// Return the directions for one request: one leg per hop, in order.
	// Failures are returned as-is; retries are the implementation's concern.
	Route(ctx context.Context, req domain.DirectionsRequest) (domain.DirectionsResult, error)
}

// Memoizes directions by request. Implementations key entries with
// domain.DirectionsKey.
type DirectionsCache interface {
	// Return the stored result of a structurally equal request.
	Get(ctx context.Context, req domain.DirectionsRequest) (domain.DirectionsResult, bool, error)
	Set(ctx context.Context, req domain.DirectionsRequest, result domain.DirectionsResult) error
}

// Resolves the display name of a spot from its external place id.
type PlaceLookup interface {
	FetchDisplayName(ctx context.Context, placeID string) (string, error)
}

// Names a bare coordinate, used for locations that have no place id.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, at domain.LatLng) (string, error)
}

// Stores display names by key (place id or coordinate).
type DisplayNameCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, name string) error
}
