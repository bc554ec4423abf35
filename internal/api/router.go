/**
 * @description
 * This file sets up the HTTP router using the go-chi/chi router. It defines
 * the API routes, applies middleware for logging, CORS, and authentication,
 * and maps the routes to their corresponding handler functions.
 */
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new Chi router and registers the SubsTracker routes.
func NewRouter(h *Handler, jwtSecret []byte) *chi.Mux {
	r := chi.NewRouter()

	// Setup middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("SubsTracker is healthy"))
	})

	r.Post("/api/login", h.handleLogin)

	// Protected routes that require authentication
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(jwtSecret))

		r.Get("/api/subscriptions", h.handleListSubscriptions)
		r.Post("/api/subscriptions", h.handleCreateSubscription)
		r.Get("/api/subscriptions/{id}", h.handleGetSubscription)
		r.Put("/api/subscriptions/{id}", h.handleUpdateSubscription)
		r.Delete("/api/subscriptions/{id}", h.handleDeleteSubscription)
		r.Post("/api/subscriptions/{id}/toggle", h.handleToggleSubscription)

		r.Get("/api/stats", h.handleStats)
		r.Post("/api/check", h.handleRunCheck)
		r.Post("/api/notify/test", h.handleTestNotification)
	})

	return r
}
