package dto

import (
	"time"
	"touring-route-service/internal/domain"
)

type TouringRequest struct {
	ID      string             `json:"id,omitempty"`
	Name    string             `json:"name" validate:"required,max=100"`
	Touring domain.TouringJSON `json:"touring" validate:"required"`
	Publish bool               `json:"publish,omitempty"`
}

type TouringSummaryResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Publish         bool       `json:"publish"`
	SharedTouringID string     `json:"sharedTouringId"`
	CreatedAt       *time.Time `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

type TouringResponse struct {
	TouringSummaryResponse
	Touring domain.SharedTouringJSON `json:"touring"`
}

type IDResponse struct {
	ID string `json:"id"`
}

type SharedTouringResponse struct {
	ID        string                   `json:"id"`
	Name      string                   `json:"name"`
	SharedBy  string                   `json:"sharedBy"`
	Touring   domain.SharedTouringJSON `json:"touring"`
	CreatedAt *time.Time               `json:"createdAt,omitempty"`
	UpdatedAt *time.Time               `json:"updatedAt,omitempty"`
}

func ToTouringSummary(e *domain.TouringEntity) TouringSummaryResponse {
	return TouringSummaryResponse{
		ID:              e.ID,
		Name:            e.Name,
		Publish:         e.Publish,
		SharedTouringID: e.SharedTouringID,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func ToSharedTouring(e *domain.SharedTouringEntity) SharedTouringResponse {
	return SharedTouringResponse{
		ID:        e.ID,
		Name:      e.Name,
		SharedBy:  e.SharedBy,
		Touring:   e.Touring,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
