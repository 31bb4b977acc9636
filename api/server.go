/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/cases           Filtered case listing
  /api/filters/*       Filter vocabulary for selector UIs
  /api/reports/*       Billing grid, matrix, classification, CSV export
  /api/adjustments/*   Adjustment lifecycle and bucket moves
  /api/views/*         Saved view presets
  /api/scenarios/*     Demo scenarios

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Case listing
		r.Get("/cases", h.ListCases)

		// Filter vocabulary for selector UIs
		r.Get("/filters/options", h.FilterOptions)

		// Report routes
		r.Route("/reports", func(r chi.Router) {
			r.Get("/billing", h.BillingReport)
			r.Get("/billing/export", h.ExportBillingReport)
			r.Get("/matrix", h.MatrixReport)
			r.Get("/classification", h.ClassificationReport)
		})

		// Adjustment routes
		r.Route("/adjustments", func(r chi.Router) {
			r.Get("/", h.ListAdjustments)
			r.Post("/", h.CreateAdjustment)
			r.Post("/move", h.MoveAdjustment)
			r.Get("/{id}", h.GetAdjustment)
			r.Put("/{id}", h.UpdateAdjustment)
			r.Delete("/{id}", h.DeleteAdjustment)
		})

		// View preset routes
		r.Route("/views", func(r chi.Router) {
			r.Get("/", h.ListViews)
			r.Post("/", h.CreateView)
			r.Delete("/{id}", h.DeleteView)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
