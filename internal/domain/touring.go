package domain

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// isoInstantLayout renders departure keys the way browsers print
// Date.toISOString: UTC with millisecond precision.
const isoInstantLayout = "2006-01-02T15:04:05.000Z07:00"

// TouringJSON is the persisted plain shape of a touring: ISO-8601 departure
// instant to that day's places.
type TouringJSON map[string][]Place

// Touring groups routes by departure day.
//
// Days are keyed by their instant in epoch milliseconds, so two time.Time
// values describing the same instant address the same day regardless of
// location or monotonic reading. Insertion order is kept for iteration.
type Touring struct {
	routes map[int64]*Route
	order  []int64
	// newID, when set, gives every appended place a fresh identity.
	newID func() string
}

// NewTouring returns a touring holding one empty day at now. Places added
// through it are cloned with a freshly generated id, so selecting the same
// spot twice yields two independent stops.
func NewTouring(now time.Time) *Touring {
	t := NewRoutes(now)
	t.newID = uuid.NewString
	return t
}

// NewRoutes returns the plain variant of a touring that keeps the ids of
// the places it is given.
func NewRoutes(now time.Time) *Touring {
	key := now.UnixMilli()
	return &Touring{
		routes: map[int64]*Route{key: NewRoute()},
		order:  []int64{key},
	}
}

// FormatDepartureKey renders a departure instant as a JSON key.
func FormatDepartureKey(t time.Time) string {
	return time.UnixMilli(t.UnixMilli()).UTC().Format(isoInstantLayout)
}

// ParseDepartureKey parses a JSON key back into an instant. ISO-8601 keys
// are the current format; integer epoch milliseconds are also accepted.
func ParseDepartureKey(key string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04Z07:00"} {
		if t, err := time.Parse(layout, key); err == nil {
			return time.UnixMilli(t.UnixMilli()).UTC(), nil
		}
	}
	if ms, err := strconv.ParseInt(key, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("parse departure key %q: not an ISO-8601 instant", key)
}

// DepartureDateTimes returns every day in ascending order.
func (t *Touring) DepartureDateTimes() []time.Time {
	keys := slices.Clone(t.order)
	slices.Sort(keys)
	out := make([]time.Time, 0, len(keys))
	for _, k := range keys {
		out = append(out, time.UnixMilli(k).UTC())
	}
	return out
}

// FindByDepartureDateTime returns the route of the day at exactly d.
func (t *Touring) FindByDepartureDateTime(d time.Time) (*Route, bool) {
	r, ok := t.routes[d.UnixMilli()]
	return r, ok
}

// AddDepartureDateTime adds an empty day at d. If the day exists its route
// is returned unchanged.
func (t *Touring) AddDepartureDateTime(d time.Time) *Route {
	if r, ok := t.FindByDepartureDateTime(d); ok {
		return r
	}
	r := NewRoute()
	t.insert(d.UnixMilli(), r)
	return r
}

// RemoveDepartureDateTime deletes the day at d and reports whether it existed.
func (t *Touring) RemoveDepartureDateTime(d time.Time) bool {
	key := d.UnixMilli()
	if _, ok := t.routes[key]; !ok {
		return false
	}
	delete(t.routes, key)
	t.order = slices.DeleteFunc(t.order, func(k int64) bool { return k == key })
	return true
}

// AddPlaceByDepartureDateTime appends the place to the day at d. It
// reports false, and changes nothing, when no such day exists.
func (t *Touring) AddPlaceByDepartureDateTime(d time.Time, p Place) (*Route, bool) {
	r, ok := t.FindByDepartureDateTime(d)
	if !ok {
		return nil, false
	}
	if t.newID != nil {
		p.ID = t.newID()
	}
	r.Add(p)
	return r, true
}

// ChangeDepartureDateTime moves the day at from to to and clears its
// computed state. It fails without touching anything when from is unknown
// or to is already taken.
func (t *Touring) ChangeDepartureDateTime(from, to time.Time) bool {
	fromKey, toKey := from.UnixMilli(), to.UnixMilli()
	r, ok := t.routes[fromKey]
	if !ok {
		return false
	}
	if _, taken := t.routes[toKey]; taken {
		return false
	}

	r.ResetCalculated()
	delete(t.routes, fromKey)
	t.routes[toKey] = r
	t.order[slices.Index(t.order, fromKey)] = toKey
	return true
}

// Len returns the number of days.
func (t *Touring) Len() int { return len(t.order) }

// ToJSON returns the plain persisted shape.
func (t *Touring) ToJSON() TouringJSON {
	out := make(TouringJSON, len(t.order))
	for _, k := range t.order {
		out[FormatDepartureKey(time.UnixMilli(k))] = t.routes[k].Places()
	}
	return out
}

// FromJSON replaces every day with the ones described by data. Keys that
// do not parse make it fail before anything is changed.
func (t *Touring) FromJSON(data TouringJSON) error {
	days, err := parseDays(data)
	if err != nil {
		return fmt.Errorf("touring from json: %w", err)
	}

	t.clear()
	for _, d := range days {
		r := NewRoute()
		r.Set(data[d.key])
		t.insert(d.instant, r)
	}
	return nil
}

// Serialize returns each day's serialized route keyed by ISO instant.
func (t *Touring) Serialize() (map[string]string, error) {
	out := make(map[string]string, len(t.order))
	for _, k := range t.order {
		key := FormatDepartureKey(time.UnixMilli(k))
		s, err := t.routes[k].Serialize()
		if err != nil {
			return nil, fmt.Errorf("serialize touring day %s: %w", key, err)
		}
		out[key] = s
	}
	return out, nil
}

// Deserialize replaces every day with the serialized routes. On any error
// the touring is left as it was.
func (t *Touring) Deserialize(serialized map[string]string) error {
	days, err := parseDays(serialized)
	if err != nil {
		return fmt.Errorf("deserialize touring: %w", err)
	}

	routes := make([]*Route, 0, len(days))
	for _, d := range days {
		r := NewRoute()
		if err := r.Deserialize(serialized[d.key]); err != nil {
			return fmt.Errorf("deserialize touring day %s: %w", d.key, err)
		}
		routes = append(routes, r)
	}

	t.clear()
	for i, d := range days {
		t.insert(d.instant, routes[i])
	}
	return nil
}

// Each calls fn for every day in ascending order.
func (t *Touring) Each(fn func(departure time.Time, r *Route)) {
	for _, d := range t.DepartureDateTimes() {
		fn(d, t.routes[d.UnixMilli()])
	}
}

func (t *Touring) insert(key int64, r *Route) {
	t.routes[key] = r
	t.order = append(t.order, key)
}

func (t *Touring) clear() {
	t.routes = map[int64]*Route{}
	t.order = nil
}

type parsedDay struct {
	key     string
	instant int64
}

// parseDays parses every key of a day-keyed map, sorted by instant.
func parseDays[V any](m map[string]V) ([]parsedDay, error) {
	days := make([]parsedDay, 0, len(m))
	seen := make(map[int64]string, len(m))
	for key := range m {
		d, err := ParseDepartureKey(key)
		if err != nil {
			return nil, err
		}
		ms := d.UnixMilli()
		if prev, dup := seen[ms]; dup {
			return nil, fmt.Errorf("keys %q and %q name the same instant", prev, key)
		}
		seen[ms] = key
		days = append(days, parsedDay{key: key, instant: ms})
	}
	slices.SortFunc(days, func(a, b parsedDay) int {
		switch {
		case a.instant < b.instant:
			return -1
		case a.instant > b.instant:
			return 1
		}
		return 0
	})
	return days, nil
}
