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
  /api/records/*    Daily records (preview, save, edit, delete, export)
  /api/calendar/*   Calendar events and notes
  /api/flocks/*     Flock management
  /api/settings/*   Currency
  /api/weather/*    Weather table and day cache

SECURITY NOTE:
  No authentication middleware. The server binds localhost and serves a
  single farm's data.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Record routes
		r.Route("/records", func(r chi.Router) {
			r.Get("/", h.ListRecords)
			r.Post("/", h.SaveRecord)
			r.Delete("/", h.ClearHistory)
			r.Post("/preview", h.PreviewRecord)
			r.Get("/csv", h.ExportHistoryCSV)
			r.Put("/{id}", h.EditRecord)
			r.Delete("/{id}", h.DeleteRecord)
			r.Get("/{id}/csv", h.ExportRecordCSV)
		})

		// Calendar routes
		r.Route("/calendar", func(r chi.Router) {
			r.Get("/", h.ListEvents)
			r.Post("/notes", h.CreateNote)
			r.Put("/notes", h.UpdateNote)
		})

		// Flock routes
		r.Route("/flocks", func(r chi.Router) {
			r.Get("/", h.ListFlocks)
			r.Post("/", h.CreateFlock)
			r.Put("/{id}", h.UpdateFlock)
			r.Delete("/{id}", h.DeleteFlock)
		})

		// Settings routes
		r.Route("/settings", func(r chi.Router) {
			r.Get("/currency", h.GetCurrency)
			r.Put("/currency", h.SetCurrency)
		})

		// Weather routes
		r.Route("/weather", func(r chi.Router) {
			r.Get("/", h.ListWeather)
			r.Get("/days", h.DayWeather)
		})
	})

	return r
}
