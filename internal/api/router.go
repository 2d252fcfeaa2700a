package api

import (
	"net/http"
	"touring-route-service/internal/api/handlers"
	"touring-route-service/internal/platform/auth"
	"touring-route-service/internal/services"
)

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	Tourings   *services.TouringService
	Shared     *services.SharedService
	Places     *services.PlaceService
	Calculator *services.RouteCalculator
	Verifier   *auth.Verifier
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Dependencies) http.Handler {
	mux := http.NewServeMux()

	touringHandler := &handlers.TouringHandler{Service: deps.Tourings}
	sharedHandler := &handlers.SharedHandler{Service: deps.Shared}
	placeHandler := &handlers.PlaceHandler{Service: deps.Places}
	routeHandler := &handlers.RouteHandler{Calculator: deps.Calculator}

	authed := func(h http.HandlerFunc) http.HandlerFunc { return requireAuth(deps.Verifier, h) }

	mux.HandleFunc("GET /health", handlers.Health)

	mux.HandleFunc("POST /api/tourings", authed(touringHandler.Create))
	mux.HandleFunc("GET /api/tourings", authed(touringHandler.List))
	mux.HandleFunc("GET /api/tourings/{id}", authed(touringHandler.Get))
	mux.HandleFunc("PUT /api/tourings/{id}", authed(touringHandler.Update))
	mux.HandleFunc("DELETE /api/tourings/{id}", authed(touringHandler.Delete))
	mux.HandleFunc("POST /api/tourings/{id}/calc", authed(touringHandler.Calculate))
	mux.HandleFunc("PUT /api/tourings/{id}/share", authed(sharedHandler.Share))

	mux.HandleFunc("GET /api/shared/{id}", sharedHandler.Get)

	mux.HandleFunc("GET /api/places/{placeId}/display-name", authed(placeHandler.DisplayName))
	mux.HandleFunc("GET /api/locations/name", authed(placeHandler.LocationName))
	mux.HandleFunc("POST /api/routes/calc", authed(routeHandler.Calc))

	return loggingMiddleware(mux)
}
