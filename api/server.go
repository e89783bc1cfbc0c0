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
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestLogger: Structured zerolog request logging
  4. CORS:       Cross-origin requests for the dashboard frontend

ROUTE GROUPS:
  /api/snapshots/*  Snapshot ingestion (sales, discounts, goals)
  /api/results/*    Derived read model
  /api/export/*     CSV export for payroll
  /api/config       Commission configuration
  /api/scenarios/*  Demo scenarios
  /healthz          Liveness probe

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pulsegym/sales-engine/obs"
)

// RouterOptions tunes the middleware stack.
type RouterOptions struct {
	AllowedOrigins []string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:8080"}
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(obs.RequestLogger{Logger: h.log}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Snapshot ingestion
		r.Route("/snapshots", func(r chi.Router) {
			r.Post("/sales", h.PushSales)
			r.Post("/discounts", h.PushDiscounts)
			r.Post("/goals", h.PushGoals)
		})

		// Derived read model
		r.Route("/results", func(r chi.Router) {
			r.Get("/", h.GetResultMeta)
			r.Get("/sales", h.GetResultSales)
			r.Get("/consultants", h.GetResultConsultants)
			r.Get("/units", h.GetResultUnits)
		})

		// Payroll export
		r.Get("/export/consultants.csv", h.ExportConsultantsCSV)

		// Commission configuration
		r.Get("/config", h.GetConfig)
		r.Put("/config", h.PutConfig)

		// Stored periods
		r.Get("/periods", h.ListStoredPeriods)

		// Demo scenarios
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	r.Get("/healthz", h.Health)

	return r
}
