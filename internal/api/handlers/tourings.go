package handlers

import (
	"net/http"
	"touring-route-service/internal/api/dto"
	"touring-route-service/internal/domain"
	"touring-route-service/internal/services"
)

// TouringHandler exposes the tourings of the authenticated user.
type TouringHandler struct {
	Service *services.TouringService
}

func (h *TouringHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.TouringRequest
	if !decodeJSON(w, r, &req) || !validTouring(w, r, req) {
		return
	}
	if req.ID != "" {
		writeError(w, r, http.StatusBadRequest, "id must not be set on create")
		return
	}

	saved, err := h.Service.Save(r.Context(), user, toInput(req))
	if err != nil {
		writeServiceError(w, r, "create touring", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, dto.IDResponse{ID: saved.ID})
}

func (h *TouringHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.TouringRequest
	if !decodeJSON(w, r, &req) || !validTouring(w, r, req) {
		return
	}
	if req.ID != r.PathValue("id") {
		writeError(w, r, http.StatusBadRequest, "id does not match path")
		return
	}

	saved, err := h.Service.Save(r.Context(), user, toInput(req))
	if err != nil {
		writeServiceError(w, r, "update touring", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.IDResponse{ID: saved.ID})
}

func (h *TouringHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	tourings, err := h.Service.All(r.Context(), user)
	if err != nil {
		writeServiceError(w, r, "list tourings", err)
		return
	}

	res := make([]dto.TouringSummaryResponse, 0, len(tourings))
	for _, t := range tourings {
		res = append(res, dto.ToTouringSummary(t))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *TouringHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	entity, touring, err := h.Service.Get(r.Context(), user, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get touring", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.TouringResponse{
		TouringSummaryResponse: dto.ToTouringSummary(entity),
		Touring:                touring.ToCalculatedJSON(),
	})
}

func (h *TouringHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.Service.Remove(r.Context(), user, r.PathValue("id")); err != nil {
		writeServiceError(w, r, "remove touring", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Calculate runs the directions calculation of every day server-side.
func (h *TouringHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	arrivals, err := h.Service.Calculate(r.Context(), user, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "calculate touring", err)
		return
	}
	writeJSON(w, r, http.StatusOK, arrivals)
}

func validTouring(w http.ResponseWriter, r *http.Request, req dto.TouringRequest) bool {
	if err := dto.Validate(req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return false
	}
	for key, places := range req.Touring {
		if _, err := domain.ParseDepartureKey(key); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return false
		}
		if !validPlaces(w, r, places) {
			return false
		}
	}
	return true
}

func validPlaces(w http.ResponseWriter, r *http.Request, places []domain.Place) bool {
	if err := domain.ValidatePlaces(places); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func toInput(req dto.TouringRequest) services.TouringInput {
	return services.TouringInput{
		ID:      req.ID,
		Name:    req.Name,
		Publish: req.Publish,
		Touring: req.Touring,
	}
}
