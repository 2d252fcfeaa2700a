package handlers

import (
	"net/http"
	"time"
	"touring-route-service/internal/api/dto"
	"touring-route-service/internal/domain"
	"touring-route-service/internal/services"
)

// RouteHandler calculates a single route without storing it.
type RouteHandler struct {
	Calculator *services.RouteCalculator
}

func (h *RouteHandler) Calc(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteCalcRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := dto.Validate(req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if !validPlaces(w, r, req.Places) {
		return
	}

	route := domain.NewRoute()
	route.Set(req.Places)
	if err := h.Calculator.Calc(r.Context(), route, req.DepartureTime); err != nil {
		writeServiceError(w, r, "calc route", err)
		return
	}

	res := dto.RouteCalcResponse{
		ArrivalTimes: route.ArrivalTimes(),
		Legs:         make([]dto.RouteLegResponse, 0, route.Len()),
	}
	for _, p := range route.Places() {
		result, ok := route.DirectionsResult(p)
		if !ok {
			continue
		}
		arrival, _ := route.ArrivalTime(p)
		res.Legs = append(res.Legs, dto.RouteLegResponse{
			PlaceID:         p.ID,
			ArrivalTime:     arrival.UnixMilli(),
			DistanceMeters:  result.TotalDistanceMeters(),
			DurationSeconds: int(result.TotalDuration() / time.Second),
		})
	}
	if at, ok := route.CalcedAt(); ok {
		res.CalcedAt = at.UTC().Format(time.RFC3339Nano)
	}

	writeJSON(w, r, http.StatusOK, res)
}
