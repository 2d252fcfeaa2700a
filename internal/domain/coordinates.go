package domain

import (
	"strconv"

	"github.com/golang/geo/s2"
)

// Immutable geographic coordinates (latitude, longitude) in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Return coordinates as [lng, lat] for external API compatibility.
func (c LatLng) CoordsToList() []float64 { return []float64{c.Lng, c.Lat} }

// String returns the canonical "(lat, lng)" form used for cache keys.
// Values are printed with the shortest exact representation so that two
// distinct points never collapse into the same string.
func (c LatLng) String() string {
	return "(" + strconv.FormatFloat(c.Lat, 'f', -1, 64) + ", " + strconv.FormatFloat(c.Lng, 'f', -1, 64) + ")"
}

// Valid reports whether the coordinate lies on the sphere.
func (c LatLng) Valid() bool {
	return s2.LatLngFromDegrees(c.Lat, c.Lng).IsValid()
}
