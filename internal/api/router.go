package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/iammorganparry/hwsim/internal/sessions"
	"github.com/iammorganparry/hwsim/internal/store"
)

// NewRouter creates the Chi router with all routes and middleware.
func NewRouter(
	db *store.DB,
	svc *sessions.Service,
	maxSteps int,
	apiKey string,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (runs on ALL routes including /health)
	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	healthH := NewHealthHandler(db)
	sessionH := NewSessionHandler(svc, maxSteps)

	// Unauthenticated routes
	r.Get("/health", healthH.Health)

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(apiKey))

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", sessionH.List)
			r.Post("/", sessionH.Create)
			r.Get("/{id}", sessionH.Get)
			r.Delete("/{id}", sessionH.Delete)
			r.Post("/{id}/population", sessionH.DefinePopulation)
			r.Post("/{id}/candidate", sessionH.ProposeFrequency)
			r.Post("/{id}/overwrite", sessionH.Overwrite)
			r.Post("/{id}/start", sessionH.Start)
			r.Post("/{id}/advance", sessionH.Advance)
			r.Post("/{id}/drift", sessionH.BeginDrift)
			r.Post("/{id}/conclude", sessionH.Conclude)
			r.Post("/{id}/reset", sessionH.Reset)
			r.Get("/{id}/history", sessionH.History)
			r.Get("/{id}/stats", sessionH.Stats)
			r.Get("/{id}/events", sessionH.Events)
			r.Get("/{id}/chart.png", sessionH.Chart)
		})
	})

	return r
}
