package domain

import (
	"errors"
	"fmt"
)

// DefaultStayingTime is the number of minutes spent at a place when the
// caller does not say otherwise.
const DefaultStayingTime = 10

const (
	maxStayingTime  = 300
	stayingTimeStep = 10
)

// Place is a single stop of a route.
//
// A Place carrying a PlaceID was picked from the place-lookup API and is
// called a Spot; without one it is a bare map coordinate (a Location).
type Place struct {
	ID          string  `json:"id"`
	DisplayName *string `json:"displayName,omitempty"`
	LatLng      LatLng  `json:"latLng"`
	// Minutes spent at this place before departing to the next one.
	StayingTime int     `json:"stayingTime"`
	Waypoint    bool    `json:"waypoint,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	PlaceID     *string `json:"placeId,omitempty"`
}

// NewLocation returns a bare coordinate place with the default staying time.
func NewLocation(id string, latLng LatLng) Place {
	return Place{ID: id, LatLng: latLng, StayingTime: DefaultStayingTime}
}

// NewSpot returns a place identified by the place-lookup API.
func NewSpot(id, placeID string, latLng LatLng) Place {
	p := NewLocation(id, latLng)
	p.PlaceID = &placeID
	return p
}

// IsSpot reports whether the place carries an external place identifier.
func IsSpot(p Place) bool {
	return p.PlaceID != nil
}

// FormatLocation returns the display name of the place, or its coordinates
// with six decimals when it has none. A nil place formats as "".
func FormatLocation(p *Place) string {
	if p == nil {
		return ""
	}
	if p.DisplayName != nil {
		return *p.DisplayName
	}
	return fmt.Sprintf("%.6f, %.6f", p.LatLng.Lat, p.LatLng.Lng)
}

// GoogleMapURI returns the Google Maps detail page of a spot.
func GoogleMapURI(p Place) string {
	placeID := ""
	if p.PlaceID != nil {
		placeID = *p.PlaceID
	}
	return "https://www.google.com/maps/place/?q=place_id:" + placeID
}

// Validate checks the constraints accepted from clients.
func (p Place) Validate() error {
	if p.ID == "" {
		return errors.New("validate place: id must not be empty")
	}
	if p.StayingTime < 0 || p.StayingTime > maxStayingTime || p.StayingTime%stayingTimeStep != 0 {
		return fmt.Errorf("validate place %q: staying time %d must be 0..%d in steps of %d",
			p.ID, p.StayingTime, maxStayingTime, stayingTimeStep)
	}
	if !p.LatLng.Valid() {
		return fmt.Errorf("validate place %q: invalid coordinate %s", p.ID, p.LatLng)
	}
	return nil
}

// ValidatePlaces validates every place of one route and rejects ids used
// more than once, since computed results are keyed by place id.
func ValidatePlaces(places []Place) error {
	seen := make(map[string]struct{}, len(places))
	for _, p := range places {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("validate places: id %q is used more than once", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}
