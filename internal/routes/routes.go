package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/rezoapp/rezo-backend/internal/config"
	"github.com/rezoapp/rezo-backend/internal/handlers"
	"github.com/rezoapp/rezo-backend/internal/middleware"
)

func SetupRoutes(r *chi.Mux, cfg *config.Config) {
	secret := []byte(cfg.JWTSecret)

	// Magic link auth
	r.With(middleware.MagicLinkRateLimit).Post("/api/auth/request-magic-link", handlers.RequestMagicLink)
	r.Post("/api/auth/verify-magic-link", handlers.VerifyMagicLink)

	// Everything below requires a valid session token
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(secret))

		r.Get("/api/auth/me", handlers.GetMe)
		r.Post("/api/auth/logout", handlers.Logout)

		r.Get("/api/users/profile", handlers.GetProfile)
		r.Put("/api/users/profile", handlers.UpdateProfile)
		r.Post("/api/users/mood", handlers.RecordMood)
		r.Get("/api/users/mood-history", handlers.GetMoodHistory)
		r.Post("/api/users/music-interaction", handlers.RecordMusicInteraction)
		r.Get("/api/users/music-interactions", handlers.GetMusicInteractions)
		r.Delete("/api/users/account", handlers.DeleteAccount)

		r.Post("/api/upload", handlers.UploadAvatar)
	})

	// Monitoring
	r.Get("/api/health", handlers.Health)
	r.Get("/api/metrics", handlers.Metrics)
}
