/*
Package api exposes plan evaluation and analysis over HTTP.

ROUTER: chi

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address from X-Forwarded-For / X-Real-IP
  3. Logger:     Request logging
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests for a browser front end

ROUTES:
  GET    /health                     Health check
  GET    /api/plans/defaults         Default plan parameters
  POST   /api/plans/evaluate         Evaluate a plan body
  POST   /api/plans/sensitivity      Parameter sweeps
  POST   /api/plans/break-even       Break-even solver
  POST   /api/plans/compare          Template / transform comparison
  GET    /api/plans                  Saved plans
  POST   /api/plans                  Save a plan
  GET    /api/plans/{id}             One saved plan
  PUT    /api/plans/{id}             Replace a saved plan
  DELETE /api/plans/{id}             Delete a saved plan
  POST   /api/plans/{id}/evaluate    Evaluate a saved plan
  GET    /api/evaluations            Recent evaluations (?limit=N)
  GET    /api/evaluations/{id}       One evaluation

The saved-plan and history routes are only mounted when the handler has a
store.

SEE ALSO:
  - handlers.go: Handler implementations
  - dto.go: Request bodies
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{EvaluationIDHeader},
		AllowCredentials: true,
	}))

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/plans", func(r chi.Router) {
			r.Get("/defaults", h.GetDefaults)
			r.Post("/evaluate", h.EvaluatePlan)
			r.Post("/sensitivity", h.AnalyzeSensitivity)
			r.Post("/break-even", h.BreakEven)
			r.Post("/compare", h.ComparePlans)

			if h.Store != nil {
				r.Get("/", h.ListPlans)
				r.Post("/", h.CreatePlan)
				r.Get("/{id}", h.GetPlan)
				r.Put("/{id}", h.UpdatePlan)
				r.Delete("/{id}", h.DeletePlan)
				r.Post("/{id}/evaluate", h.EvaluateSavedPlan)
			}
		})

		if h.Store != nil {
			r.Route("/evaluations", func(r chi.Router) {
				r.Get("/", h.ListEvaluations)
				r.Get("/{id}", h.GetEvaluation)
			})
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})

	return r
}
