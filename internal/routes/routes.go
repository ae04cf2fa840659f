package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/amicuslegal/amicus/internal/auth"
	"github.com/amicuslegal/amicus/internal/handlers"
	"github.com/amicuslegal/amicus/internal/middleware"
)

// RegisterRoutes registers all application routes under /api
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	assistantHandler *handlers.AssistantHandler,
	tokenManager *auth.TokenManager,
) {
	authRateLimit := middleware.DefaultAuthRateLimit()
	assistantRateLimit := middleware.DefaultAssistantRateLimit()

	router.Route("/api", func(r chi.Router) {
		// Public auth endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(authRateLimit))

			r.Post("/auth/send-otp", authHandler.SendOTP)
			r.Post("/auth/verify-otp", authHandler.VerifyOTP)
			r.Post("/auth/login", authHandler.Login)
			r.Post("/auth/check-email", authHandler.CheckEmail)
		})

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokenManager))

			r.Get("/users/me", userHandler.Me)
			r.Put("/users/me/jurisdiction", userHandler.UpdateJurisdiction)
			r.Post("/users/me/accept-terms", userHandler.AcceptTerms)

			r.Route("/assistant", func(r chi.Router) {
				r.Use(middleware.RateLimitByIP(assistantRateLimit))

				r.Post("/chat", assistantHandler.Chat)
				r.Post("/analyze", assistantHandler.Analyze)
				r.Post("/forge", assistantHandler.Forge)
			})
		})
	})
}
