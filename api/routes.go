package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog/log"

	"portfolio-backend/errs"
)

// setupRoutes wires the full API surface under /api
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware, startupTime time.Time) {
	r.Route("/api", func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/health", healthHandler(startupTime))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", handlers.authHandler.register())
			r.Post("/login", handlers.authHandler.login())

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.authenticate)
				r.Get("/me", handlers.authHandler.me())
				r.Put("/profile", handlers.authHandler.updateProfile())
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", handlers.userHandler.listUsers())
			r.With(authMiddleware.authenticate).Get("/stats", handlers.userHandler.stats())
			r.Get("/{userID}", handlers.userHandler.getUser())
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", handlers.projectHandler.listProjects())
			r.Get("/featured", handlers.projectHandler.featuredProjects())
			r.Get("/stats", handlers.projectHandler.stats())
			r.Get("/{slug}", handlers.projectHandler.getProjectBySlug())
			r.Post("/", handlers.projectHandler.createProject())
			r.Put("/{projectID}", handlers.projectHandler.updateProject())
			r.Delete("/{projectID}", handlers.projectHandler.deleteProject())
			r.Post("/{projectID}/like", handlers.projectHandler.likeProject())
		})

		r.Route("/contact", func(r chi.Router) {
			r.With(contactLimiter()).Post("/", handlers.contactHandler.submit())
			r.Get("/info", handlers.contactHandler.info())
			r.With(subscribeLimiter()).Post("/subscribe", handlers.contactHandler.subscribe())
		})
	})
}

// contactLimiter admits 3 submissions per client IP per 15 minutes
func contactLimiter() func(http.Handler) http.Handler {
	return httprate.Limit(3, 15*time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(rateLimitHandler("Too many contact form submissions, please try again later.")),
	)
}

// subscribeLimiter admits 5 subscription attempts per client IP per hour
func subscribeLimiter() func(http.Handler) http.Handler {
	return httprate.Limit(5, time.Hour,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(rateLimitHandler("Too many subscription attempts, please try again later.")),
	)
}

func rateLimitHandler(message string) http.HandlerFunc {
	responder := NewResponder(log.With().Str("handlerName", "rateLimiter").Logger())

	return func(w http.ResponseWriter, r *http.Request) {
		responder.WriteError(w, errs.NewRateLimitedError(message))
	}
}
