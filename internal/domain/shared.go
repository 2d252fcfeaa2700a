package domain

import (
	"errors"
	"strings"
	"time"
)

// SharedPlace is a place as published on a public read-only link, with
// its computed arrival time in epoch milliseconds. The first place of a
// day has no arrival time.
type SharedPlace struct {
	Place
	ArrivalTime *int64 `json:"arrivalTime,omitempty"`
}

// SharedDay is one departure day of a published touring.
type SharedDay struct {
	Places   []SharedPlace `json:"places"`
	CalcedAt string        `json:"calcedAt,omitempty"`
}

// SharedTouringJSON maps ISO-8601 departure instants to published days.
type SharedTouringJSON map[string]SharedDay

// DayArrivalTimes carries the calculation result of one day as sent by
// clients when sharing a touring.
type DayArrivalTimes struct {
	ArrivalTimes map[string]int64 `json:"arrivalTimes" validate:"required"`
	CalcedAt     string           `json:"calcedAt"`
}

// ArrivalTimeJSON maps ISO-8601 departure instants to arrival times.
type ArrivalTimeJSON map[string]DayArrivalTimes

// ToCalculatedJSON returns every day with its places annotated with the
// computed arrival times.
func (t *Touring) ToCalculatedJSON() SharedTouringJSON {
	out := make(SharedTouringJSON, len(t.order))
	for _, k := range t.order {
		r := t.routes[k]
		day := SharedDay{Places: annotate(r.Places(), r.arrivalTimes)}
		if at, ok := r.CalcedAt(); ok {
			day.CalcedAt = at.UTC().Format(time.RFC3339Nano)
		}
		out[FormatDepartureKey(time.UnixMilli(k))] = day
	}
	return out
}

// ArrivalTimeJSON returns the arrival times of every day.
func (t *Touring) ArrivalTimeJSON() ArrivalTimeJSON {
	out := make(ArrivalTimeJSON, len(t.order))
	for _, k := range t.order {
		r := t.routes[k]
		day := DayArrivalTimes{ArrivalTimes: r.ArrivalTimes()}
		if at, ok := r.CalcedAt(); ok {
			day.CalcedAt = at.UTC().Format(time.RFC3339Nano)
		}
		out[FormatDepartureKey(time.UnixMilli(k))] = day
	}
	return out
}

// BuildSharedTouring turns a saved touring and the arrival times computed
// for it into its published form.
func BuildSharedTouring(user User, entity *TouringEntity, days TouringJSON, arrivals ArrivalTimeJSON) (*SharedTouringEntity, error) {
	if entity == nil || entity.ID == "" {
		return nil, errors.New("build shared touring: can not share unsaved touring")
	}
	if entity.SharedTouringID == "" {
		return nil, errors.New("build shared touring: shared touring id not set")
	}

	touring := make(SharedTouringJSON, len(days))
	for key, places := range days {
		day := arrivals[key]
		touring[key] = SharedDay{
			Places:   annotate(places, day.ArrivalTimes),
			CalcedAt: day.CalcedAt,
		}
	}

	return &SharedTouringEntity{
		ID:       entity.SharedTouringID,
		Name:     entity.Name,
		SharedBy: user.ShareName(),
		Touring:  touring,
	}, nil
}

func annotate(places []Place, arrivals map[string]int64) []SharedPlace {
	out := make([]SharedPlace, 0, len(places))
	for _, p := range places {
		sp := SharedPlace{Place: p}
		if ms, ok := arrivals[p.ID]; ok {
			sp.ArrivalTime = &ms
		}
		out = append(out, sp)
	}
	return out
}

// ShareName is the name a user publishes under: the local part of the
// e-mail address.
func (u User) ShareName() string {
	name, _, _ := strings.Cut(u.Email, "@")
	return name
}
