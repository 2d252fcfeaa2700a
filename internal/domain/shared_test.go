package domain

import (
	"testing"
	"time"
)

func TestShareName(t *testing.T) {
	tests := map[string]string{
		"alice@example.com": "alice",
		"bob":               "bob",
		"":                  "",
	}
	for email, want := range tests {
		if got := (User{Email: email}).ShareName(); got != want {
			t.Errorf("ShareName(%q) = %q; want %q", email, got, want)
		}
	}
}

func TestBuildSharedTouring(t *testing.T) {
	user := User{ID: "u1", Email: "alice@example.com"}
	key := FormatDepartureKey(day1)
	days := TouringJSON{key: {
		NewLocation("a", LatLng{Lat: 35, Lng: 139}),
		NewLocation("b", LatLng{Lat: 35.1, Lng: 139.1}),
	}}
	arrivals := ArrivalTimeJSON{key: {
		ArrivalTimes: map[string]int64{"b": day1.Add(30 * time.Minute).UnixMilli()},
		CalcedAt:     "2026-04-30T09:00:00Z",
	}}

	entity := &TouringEntity{ID: "t1", Name: "Hakone", SharedTouringID: "s1"}
	shared, err := BuildSharedTouring(user, entity, days, arrivals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if shared.ID != "s1" || shared.Name != "Hakone" || shared.SharedBy != "alice" {
		t.Errorf("shared = %+v", shared)
	}
	day := shared.Touring[key]
	if day.CalcedAt != "2026-04-30T09:00:00Z" {
		t.Errorf("calcedAt = %q", day.CalcedAt)
	}
	if len(day.Places) != 2 {
		t.Fatalf("places = %+v", day.Places)
	}
	if day.Places[0].ArrivalTime != nil {
		t.Errorf("origin has arrival time")
	}
	if at := day.Places[1].ArrivalTime; at == nil || *at != day1.Add(30*time.Minute).UnixMilli() {
		t.Errorf("arrival = %v", at)
	}
}

func TestBuildSharedTouringErrors(t *testing.T) {
	user := User{ID: "u1", Email: "alice@example.com"}

	tests := map[string]*TouringEntity{
		"nil entity":       nil,
		"unsaved":          {Name: "x", SharedTouringID: "s1"},
		"missing share id": {ID: "t1", Name: "x"},
	}
	for name, entity := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := BuildSharedTouring(user, entity, TouringJSON{}, ArrivalTimeJSON{}); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestToCalculatedJSON(t *testing.T) {
	touring := NewRoutes(day1)
	touring.AddDepartureDateTime(day2)
	r, _ := touring.AddPlaceByDepartureDateTime(day1, NewLocation("a", LatLng{}))
	touring.AddPlaceByDepartureDateTime(day1, NewLocation("b", LatLng{Lat: 1, Lng: 1}))
	r.RecordLeg("b", DirectionsResult{}, day1.Add(time.Hour))
	r.MarkCalculated(time.Date(2026, 4, 30, 9, 0, 0, 0, time.UTC))

	out := touring.ToCalculatedJSON()

	calculated := out[FormatDepartureKey(day1)]
	if calculated.CalcedAt != "2026-04-30T09:00:00Z" {
		t.Errorf("calcedAt = %q", calculated.CalcedAt)
	}
	if at := calculated.Places[1].ArrivalTime; at == nil || *at != day1.Add(time.Hour).UnixMilli() {
		t.Errorf("arrival = %v", at)
	}

	empty, ok := out[FormatDepartureKey(day2)]
	if !ok || empty.CalcedAt != "" || len(empty.Places) != 0 {
		t.Errorf("day2 = %+v, %v", empty, ok)
	}

	arrivals := touring.ArrivalTimeJSON()
	if got := arrivals[FormatDepartureKey(day1)].ArrivalTimes["b"]; got != day1.Add(time.Hour).UnixMilli() {
		t.Errorf("arrival time json = %d", got)
	}
}
