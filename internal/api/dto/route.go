package dto

import (
	"time"
	"touring-route-service/internal/domain"
)

type RouteCalcRequest struct {
	DepartureTime time.Time      `json:"departureTime" validate:"required"`
	Places        []domain.Place `json:"places" validate:"required,max=100"`
}

type RouteLegResponse struct {
	PlaceID         string `json:"placeId"`
	ArrivalTime     int64  `json:"arrivalTime"`
	DistanceMeters  int    `json:"distanceMeters"`
	DurationSeconds int    `json:"durationSeconds"`
}

type RouteCalcResponse struct {
	ArrivalTimes map[string]int64   `json:"arrivalTimes"`
	Legs         []RouteLegResponse `json:"legs"`
	CalcedAt     string             `json:"calcedAt,omitempty"`
}

type DisplayNameResponse struct {
	DisplayName string `json:"displayName"`
}
