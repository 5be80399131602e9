package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/erazemk/musemate/internal/auth"
	"github.com/erazemk/musemate/internal/metrics"
	"github.com/erazemk/musemate/internal/persist"
	"github.com/erazemk/musemate/internal/store"
)

// Flusher forces pending state to storage.
type Flusher interface {
	Flush(ctx context.Context) error
}

// Deps are the collaborators the API is built on.
type Deps struct {
	Store    *store.Store
	Flusher  Flusher
	Images   *persist.Images
	Verifier *auth.Verifier
	Metrics  *metrics.Metrics
	// Origins allowed to call the API from a browser. Empty disables CORS.
	Origins []string
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	if d.Metrics != nil {
		r.Use(MetricsMiddleware(d.Metrics))
	}
	r.Use(middleware.Recoverer)
	if len(d.Origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   d.Origins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "If-None-Match"},
			ExposedHeaders:   []string{"ETag"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler())
	}

	stateHandler := &StateHandler{Store: d.Store, Flusher: d.Flusher}
	itemsHandler := &ItemsHandler{Store: d.Store}
	eventsHandler := &EventsHandler{Store: d.Store, Images: d.Images}
	membersHandler := &MembersHandler{Store: d.Store}
	merchHandler := &MerchandiseHandler{Store: d.Store, Images: d.Images}
	rentalsHandler := &RentalsHandler{Store: d.Store}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(d.Verifier, d.Store))

			r.Get("/me", stateHandler.Me)
			r.Get("/state", stateHandler.Get)
			r.Post("/flush", stateHandler.Flush)

			r.Route("/items", func(r chi.Router) {
				r.Get("/", itemsHandler.List)
				r.Post("/", itemsHandler.Create)
				r.Get("/categories", itemsHandler.Categories)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", itemsHandler.Get)
					r.Patch("/", itemsHandler.Update)
					r.Delete("/", itemsHandler.Delete)
				})
			})

			r.Route("/events", func(r chi.Router) {
				r.Get("/", eventsHandler.List)
				r.Post("/", eventsHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", eventsHandler.Get)
					r.Put("/", eventsHandler.Update)
					r.Delete("/", eventsHandler.Delete)
					r.Put("/notes", eventsHandler.SetNotes)
					r.Put("/details", eventsHandler.SetDetails)

					r.Post("/checklist", eventsHandler.AddChecklistItems)
					r.Post("/checklist/{itemId}/toggle", eventsHandler.ToggleChecklistItem)
					r.Delete("/checklist/{itemId}", eventsHandler.RemoveChecklistItem)

					r.Route("/members", func(r chi.Router) {
						r.Post("/", membersHandler.Create)
						r.Put("/{memberId}", membersHandler.Update)
						r.Delete("/{memberId}", membersHandler.Delete)
						r.Post("/{memberId}/availability/toggle", membersHandler.ToggleAvailability)
					})

					r.Route("/merchandise", func(r chi.Router) {
						r.Post("/", merchHandler.Create)
						r.Put("/{merchId}", merchHandler.Update)
						r.Delete("/{merchId}", merchHandler.Delete)
						r.Put("/{merchId}/image", merchHandler.UploadImage)
						r.Get("/{merchId}/image", merchHandler.GetImage)
					})

					r.Route("/equipment", func(r chi.Router) {
						r.Post("/", rentalsHandler.Create)
						r.Put("/{rentalId}", rentalsHandler.Update)
						r.Delete("/{rentalId}", rentalsHandler.Delete)
					})
				})
			})
		})
	})

	return r
}
