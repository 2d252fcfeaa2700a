package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"touring-route-service/internal/domain"
	"touring-route-service/internal/platform/obs"
	"touring-route-service/internal/ports"
)

// PlaceService names places for display. It is never used while
// calculating routes.
type PlaceService struct {
	Lookup   ports.PlaceLookup
	Geocoder ports.ReverseGeocoder
	// Cache is optional.
	Cache ports.DisplayNameCache
}

func NewPlaceService(lookup ports.PlaceLookup, geocoder ports.ReverseGeocoder, cache ports.DisplayNameCache) *PlaceService {
	return &PlaceService{Lookup: lookup, Geocoder: geocoder, Cache: cache}
}

// DisplayName returns the display name of a spot by its external place id.
func (s *PlaceService) DisplayName(ctx context.Context, placeID string) (_ string, err error) {
	defer obs.Time(ctx, "place.DisplayName")(&err)

	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return "", errors.New("display name: place id is empty")
	}
	if s.Lookup == nil {
		return "", errors.New("display name: place lookup is not configured")
	}

	return s.cached(ctx, "place:"+placeID, func() (string, error) {
		return s.Lookup.FetchDisplayName(ctx, placeID)
	})
}

// LocationName returns a label for a bare coordinate.
func (s *PlaceService) LocationName(ctx context.Context, at domain.LatLng) (_ string, err error) {
	defer obs.Time(ctx, "place.LocationName")(&err)

	if !at.Valid() {
		return "", errors.New("location name: invalid coordinate")
	}
	if s.Geocoder == nil {
		return "", errors.New("location name: reverse geocoder is not configured")
	}

	return s.cached(ctx, "latlng:"+at.String(), func() (string, error) {
		return s.Geocoder.ReverseGeocode(ctx, at)
	})
}

func (s *PlaceService) cached(ctx context.Context, key string, fetch func() (string, error)) (string, error) {
	if s.Cache != nil {
		name, ok, err := s.Cache.Get(ctx, key)
		if err != nil {
			log.Printf("req_id=%s display name cache read failed: %v", obs.RequestID(ctx), err)
		} else if ok {
			return name, nil
		}
	}

	name, err := fetch()
	if err != nil {
		return "", err
	}

	if s.Cache != nil {
		if err := s.Cache.Put(ctx, key, name); err != nil {
			log.Printf("req_id=%s display name cache write failed: %v", obs.RequestID(ctx), err)
		}
	}
	return name, nil
}
