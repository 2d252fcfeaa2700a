package domain

import (
	"strconv"
	"strings"
	"time"
)

// DirectionsRequest asks a routing provider for driving directions from
// Origin to Destination through the ordered Waypoints.
type DirectionsRequest struct {
	Origin        LatLng
	Destination   LatLng
	Waypoints     []LatLng
	DepartureTime time.Time
}

// DirectionsLeg is one hop of a directions result. A request with n
// waypoints yields n+1 legs.
type DirectionsLeg struct {
	DistanceMeters  int `json:"distanceMeters"`
	DurationSeconds int `json:"durationSeconds"`
}

// DirectionsResult is the provider response for one request.
type DirectionsResult struct {
	Legs    []DirectionsLeg `json:"legs"`
	Summary string          `json:"summary,omitempty"`
}

// TotalDuration sums the duration of every leg.
func (r DirectionsResult) TotalDuration() time.Duration {
	total := 0
	for _, l := range r.Legs {
		total += l.DurationSeconds
	}
	return time.Duration(total) * time.Second
}

// TotalDistanceMeters sums the distance of every leg.
func (r DirectionsResult) TotalDistanceMeters() int {
	total := 0
	for _, l := range r.Legs {
		total += l.DistanceMeters
	}
	return total
}

// DirectionsKey derives the cache key of a request:
// origin, waypoints in order, destination and departure time in epoch
// milliseconds. Structurally equal requests share a key.
func DirectionsKey(req DirectionsRequest) string {
	wps := make([]string, 0, len(req.Waypoints))
	for _, w := range req.Waypoints {
		wps = append(wps, w.String())
	}

	var b strings.Builder
	b.WriteString(req.Origin.String())
	b.WriteByte('-')
	b.WriteString(strings.Join(wps, "+"))
	b.WriteByte('-')
	b.WriteString(req.Destination.String())
	b.WriteByte('-')
	b.WriteString(strconv.FormatInt(req.DepartureTime.UnixMilli(), 10))
	return b.String()
}
