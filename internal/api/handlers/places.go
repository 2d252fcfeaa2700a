package handlers

import (
	"net/http"
	"strconv"
	"touring-route-service/internal/api/dto"
	"touring-route-service/internal/domain"
	"touring-route-service/internal/services"
)

type PlaceHandler struct {
	Service *services.PlaceService
}

func (h *PlaceHandler) DisplayName(w http.ResponseWriter, r *http.Request) {
	name, err := h.Service.DisplayName(r.Context(), r.PathValue("placeId"))
	if err != nil {
		writeServiceError(w, r, "display name", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.DisplayNameResponse{DisplayName: name})
}

// LocationName names a coordinate given as ?lat=&lng=.
func (h *PlaceHandler) LocationName(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	at := domain.LatLng{Lat: lat, Lng: lng}
	if errLat != nil || errLng != nil || !at.Valid() {
		writeError(w, r, http.StatusBadRequest, "lat and lng must be valid coordinates")
		return
	}

	name, err := h.Service.LocationName(r.Context(), at)
	if err != nil {
		writeServiceError(w, r, "location name", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.DisplayNameResponse{DisplayName: name})
}
