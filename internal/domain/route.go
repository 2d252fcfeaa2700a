package domain

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/klauspost/compress/flate"
)

// Route is the ordered list of places visited on one departure day, together
// with the directions computed for it.
//
// calculated and arrivalTimes are derived together and cleared together.
// They describe the place list as it was at calcedAt; Add and Set do not
// invalidate them, callers that reorder places must call ResetCalculated.
type Route struct {
	places       []Place
	calculated   map[string]DirectionsResult
	arrivalTimes map[string]int64
	calcedAt     *time.Time
}

func NewRoute() *Route {
	return &Route{
		places:       []Place{},
		calculated:   map[string]DirectionsResult{},
		arrivalTimes: map[string]int64{},
	}
}

// Add appends a place to the end of the route.
func (r *Route) Add(p Place) {
	r.places = append(r.places, p)
}

// Places returns a copy of the places in visiting order.
func (r *Route) Places() []Place {
	return slices.Clone(r.places)
}

// Set replaces the place list wholesale, e.g. after reordering.
func (r *Route) Set(places []Place) {
	if places == nil {
		places = []Place{}
	}
	r.places = slices.Clone(places)
}

// Len returns the number of places.
func (r *Route) Len() int { return len(r.places) }

// ResetCalculated drops every computed result.
func (r *Route) ResetCalculated() {
	r.calculated = map[string]DirectionsResult{}
	r.arrivalTimes = map[string]int64{}
	r.calcedAt = nil
}

// RecordLeg stores the directions of the leg ending at placeID and the
// arrival time computed from it.
func (r *Route) RecordLeg(placeID string, result DirectionsResult, arrival time.Time) {
	r.calculated[placeID] = result
	r.arrivalTimes[placeID] = arrival.UnixMilli()
}

// MarkCalculated records the instant of a completed calculation.
func (r *Route) MarkCalculated(at time.Time) {
	r.calcedAt = &at
}

// ArrivalTime returns the arrival time at the place, if one was computed.
func (r *Route) ArrivalTime(p Place) (time.Time, bool) {
	ms, ok := r.arrivalTimes[p.ID]
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(ms).UTC(), true
}

// ArrivalTimes returns arrival times in epoch milliseconds keyed by place id.
func (r *Route) ArrivalTimes() map[string]int64 {
	return maps.Clone(r.arrivalTimes)
}

// DirectionsResult returns the directions of the leg ending at the place.
func (r *Route) DirectionsResult(p Place) (DirectionsResult, bool) {
	res, ok := r.calculated[p.ID]
	return res, ok
}

// CalcedAt returns when the route was last fully calculated.
func (r *Route) CalcedAt() (time.Time, bool) {
	if r.calcedAt == nil {
		return time.Time{}, false
	}
	return *r.calcedAt, true
}

type routeSnapshot struct {
	Places       []Place                     `json:"places"`
	Calculated   map[string]DirectionsResult `json:"calculated"`
	ArrivalTimes map[string]int64            `json:"arrivalTimes"`
	CalcedAt     *time.Time                  `json:"calcedAt,omitempty"`
}

// Serialize encodes the route and its computed state as an opaque string
// for storage: JSON, deflated, base64.
func (r *Route) Serialize() (string, error) {
	payload, err := json.Marshal(routeSnapshot{
		Places:       r.places,
		Calculated:   r.calculated,
		ArrivalTimes: r.arrivalTimes,
		CalcedAt:     r.calcedAt,
	})
	if err != nil {
		return "", fmt.Errorf("serialize route: marshal: %w", err)
	}

	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("serialize route: create deflate writer: %w", err)
	}
	if _, err := fw.Write(payload); err != nil {
		return "", fmt.Errorf("serialize route: deflate: %w", err)
	}
	if err := fw.Close(); err != nil {
		return "", fmt.Errorf("serialize route: deflate close: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Deserialize restores a route written by Serialize. A corrupt or
// incompatible snapshot is an error and leaves the route unchanged.
func (r *Route) Deserialize(serialized string) error {
	compressed, err := base64.StdEncoding.DecodeString(serialized)
	if err != nil {
		return fmt.Errorf("deserialize route: decode base64: %w", err)
	}

	fr := flate.NewReader(bytes.NewReader(compressed))
	defer fr.Close()
	payload, err := io.ReadAll(fr)
	if err != nil {
		return fmt.Errorf("deserialize route: inflate: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	var snap routeSnapshot
	if err := dec.Decode(&snap); err != nil {
		return fmt.Errorf("deserialize route: unmarshal: %w", err)
	}
	if snap.Places == nil {
		return errors.New("deserialize route: snapshot has no places")
	}
	if snap.Calculated == nil {
		snap.Calculated = map[string]DirectionsResult{}
	}
	if snap.ArrivalTimes == nil {
		snap.ArrivalTimes = map[string]int64{}
	}

	r.places = snap.Places
	r.calculated = snap.Calculated
	r.arrivalTimes = snap.ArrivalTimes
	r.calcedAt = snap.CalcedAt
	return nil
}
