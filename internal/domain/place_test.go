package domain

import (
	"strings"
	"testing"
)

func TestIsSpot(t *testing.T) {
	loc := NewLocation("a", LatLng{Lat: 35.68, Lng: 139.76})
	if IsSpot(loc) {
		t.Errorf("location reported as spot")
	}

	spot := NewSpot("b", "ChIJ123", LatLng{Lat: 35.68, Lng: 139.76})
	if !IsSpot(spot) {
		t.Errorf("spot not reported as spot")
	}
	if spot.StayingTime != DefaultStayingTime {
		t.Errorf("staying time = %d; want %d", spot.StayingTime, DefaultStayingTime)
	}
}

func TestFormatLocation(t *testing.T) {
	if got := FormatLocation(nil); got != "" {
		t.Errorf("nil place formatted as %q", got)
	}

	p := NewLocation("a", LatLng{Lat: 35.6812, Lng: 139.7671})
	if got, want := FormatLocation(&p), "35.681200, 139.767100"; got != want {
		t.Errorf("FormatLocation = %q; want %q", got, want)
	}

	name := "Tokyo Station"
	p.DisplayName = &name
	if got := FormatLocation(&p); got != name {
		t.Errorf("FormatLocation = %q; want %q", got, name)
	}
}

func TestGoogleMapURI(t *testing.T) {
	spot := NewSpot("a", "ChIJ123", LatLng{})
	want := "https://www.google.com/maps/place/?q=place_id:ChIJ123"
	if got := GoogleMapURI(spot); got != want {
		t.Errorf("GoogleMapURI = %q; want %q", got, want)
	}
}

func TestPlaceValidate(t *testing.T) {
	ok := NewLocation("a", LatLng{Lat: 35, Lng: 139})

	tests := []struct {
		name    string
		mutate  func(p *Place)
		wantErr string
	}{
		{name: "valid", mutate: func(p *Place) {}},
		{name: "zero staying time", mutate: func(p *Place) { p.StayingTime = 0 }},
		{name: "max staying time", mutate: func(p *Place) { p.StayingTime = 300 }},
		{name: "empty id", mutate: func(p *Place) { p.ID = "" }, wantErr: "id must not be empty"},
		{name: "negative staying time", mutate: func(p *Place) { p.StayingTime = -10 }, wantErr: "staying time"},
		{name: "staying time off step", mutate: func(p *Place) { p.StayingTime = 15 }, wantErr: "staying time"},
		{name: "staying time too long", mutate: func(p *Place) { p.StayingTime = 310 }, wantErr: "staying time"},
		{name: "latitude out of range", mutate: func(p *Place) { p.LatLng.Lat = 91 }, wantErr: "invalid coordinate"},
		{name: "longitude out of range", mutate: func(p *Place) { p.LatLng.Lng = 181 }, wantErr: "invalid coordinate"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := ok
			tc.mutate(&p)
			err := p.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error = %v; want containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestLatLngString(t *testing.T) {
	if got, want := (LatLng{Lat: 35, Lng: 139}).String(), "(35, 139)"; got != want {
		t.Errorf("String = %q; want %q", got, want)
	}

	a := LatLng{Lat: 35.0000001, Lng: 139}
	b := LatLng{Lat: 35.0000002, Lng: 139}
	if a.String() == b.String() {
		t.Errorf("distinct points share string %q", a.String())
	}
}

func TestValidatePlacesRejectsDuplicateIDs(t *testing.T) {
	places := []Place{
		NewLocation("x", LatLng{Lat: 35, Lng: 139}),
		NewLocation("y", LatLng{Lat: 35.1, Lng: 139.1}),
	}
	if err := ValidatePlaces(places); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	places = append(places, NewLocation("y", LatLng{Lat: 35.2, Lng: 139.2}))
	err := ValidatePlaces(places)
	if err == nil || !strings.Contains(err.Error(), `"y"`) {
		t.Fatalf("error = %v; want duplicate id y", err)
	}

	places[2] = NewLocation("", LatLng{})
	if err := ValidatePlaces(places); err == nil {
		t.Fatalf("expected error for invalid place")
	}
}
