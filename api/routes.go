package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes mounts the public read surface, the webhook and, when enabled,
// the authenticated admin endpoints
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware, adminEnabled bool) {
	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/health", handlers.healthHandler.check())

		// Project Handler endpoints
		r.Get("/projects", handlers.projectHandler.getProjects())
		r.Get("/project/{projectID}", handlers.projectHandler.getProject())
		r.Get("/technologies", handlers.projectHandler.getTechnologies())

		// Webhook Handler endpoints
		r.Post("/webhook/github", handlers.webhookHandler.handlePush())
	})

	if !adminEnabled {
		return
	}

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.authenticate)

		r.Post("/admin/sync", handlers.adminHandler.triggerSync())
		r.Delete("/admin/project/{projectID}", handlers.adminHandler.deleteProject())
	})
}
