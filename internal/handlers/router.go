package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions configures the HTTP surface
type RouterOptions struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
}

// NewRouter wires the routes and middleware
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Websocket connections outlive any request timeout
	r.Get("/ws", h.HandleWebSocket)

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(opts.RequestTimeout))

		r.Get("/health", h.HealthCheck)
		r.Get("/metrics", h.Metrics)

		r.Get("/views", h.ListViews)
		r.Get("/views/{view}", h.GetView)
		r.Get("/views/{view}/{region}", h.GetRegion)
	})

	return r
}
