package handlers

import (
	"net/http"
	"touring-route-service/internal/api/dto"
	"touring-route-service/internal/domain"
	"touring-route-service/internal/services"
)

// SharedHandler publishes tourings and serves the public copies.
type SharedHandler struct {
	Service *services.SharedService
}

// Share publishes a touring with the arrival times in the body. An empty
// body publishes the arrival times stored with the touring.
func (h *SharedHandler) Share(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var arrivals domain.ArrivalTimeJSON
	if r.ContentLength != 0 {
		if !decodeJSON(w, r, &arrivals) {
			return
		}
		if err := dto.ValidateArrivalTimes(arrivals); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}

	shared, err := h.Service.Share(r.Context(), user, r.PathValue("id"), arrivals)
	if err != nil {
		writeServiceError(w, r, "share touring", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.IDResponse{ID: shared.ID})
}

// Get serves a published touring without authentication.
func (h *SharedHandler) Get(w http.ResponseWriter, r *http.Request) {
	shared, err := h.Service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get shared touring", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ToSharedTouring(shared))
}
