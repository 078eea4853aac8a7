package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes mounts the public gallery, the like endpoints and the
// session-protected dashboard routes under /api.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware, likeLimiter *visitorLimiter) {
	r.Route("/api", func(r chi.Router) {
		// Public gallery
		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/projects/{projectID}", handlers.projectHandler.getProject())
		r.Get("/tags", handlers.tagHandler.getAllTags())

		// Anonymous likes, limited per visitor
		r.Group(func(r chi.Router) {
			r.Use(rateLimit(likeLimiter))

			r.Get("/projects/{projectID}/like", handlers.likeHandler.getLikeStatus())
			r.Post("/projects/{projectID}/like", handlers.likeHandler.likeProject())
			r.Delete("/projects/{projectID}/like", handlers.likeHandler.unlikeProject())
		})

		// Session endpoints
		r.Post("/auth/register", handlers.authHandler.register())
		r.Post("/auth/login", handlers.authHandler.login())
		r.Post("/auth/logout", handlers.authHandler.logout())

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)

			r.Get("/auth/me", handlers.authHandler.me())
			r.Get("/user/projects", handlers.projectHandler.getUserProjects())

			r.Post("/projects", handlers.projectHandler.createProject())
			r.Put("/projects/{projectID}", handlers.projectHandler.updateProject())
			r.Patch("/projects/{projectID}/status", handlers.projectHandler.updateProjectStatus())
			r.Delete("/projects/{projectID}", handlers.projectHandler.deleteProject())

			if handlers.uploadHandler != nil {
				r.Post("/uploads", handlers.uploadHandler.uploadMedia())
			}
		})
	})
}
