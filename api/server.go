/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. CORS:       Cross-origin requests for a local frontend

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/planner: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/team-members", func(r chi.Router) {
			r.Get("/", h.ListTeamMembers)
			r.Post("/", h.CreateTeamMember)
			r.Get("/{id}", h.GetTeamMember)
			r.Delete("/{id}", h.DeleteTeamMember)
			r.Put("/{id}/allocations/{month}", h.SetExistingAllocation)
		})

		r.Get("/workdays", h.GetWorkingDays)

		r.Route("/plan", func(r chi.Router) {
			r.Post("/distribute", h.Distribute)
			r.Post("/estimate-end-date", h.EstimateEndDate)
			r.Post("/check-overflow", h.CheckOverflow)
			r.Post("/redistribute", h.Redistribute)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
