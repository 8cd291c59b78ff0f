package main

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/rezoapp/rezo-backend/internal/config"
	"github.com/rezoapp/rezo-backend/internal/database"
	"github.com/rezoapp/rezo-backend/internal/handlers"
	"github.com/rezoapp/rezo-backend/internal/middleware"
	"github.com/rezoapp/rezo-backend/internal/routes"
	"github.com/rezoapp/rezo-backend/internal/services"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	if cfg.IsProduction() && cfg.JWTSecret == "dev-secret-change-in-production" {
		log.Fatal("JWT_SECRET must be set in production")
	}

	// Connect to MongoDB (mask credentials in the log)
	log.Printf("Connecting to MongoDB: %s", maskURI(cfg.MongoURI))
	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB: ", err)
	}
	defer database.Disconnect()

	if err := database.EnsureUserIndexes(context.Background()); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure MongoDB user indexes: %v", err)
	} else {
		log.Println("✅ MongoDB user indexes ensured")
	}

	// Connect to Redis (rate limiting)
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis: ", err)
	}
	defer database.DisconnectRedis()

	// Email provider (smtp, resend or log) selected once at startup
	sender := services.NewEmailSender(cfg)
	handlers.InitAuth(cfg, sender)
	log.Printf("✅ Email provider: %s", cfg.EmailProvider)

	// Cloudinary is optional; without it avatar uploads return 503
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		if err := handlers.InitCloudinaryService(cfg); err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
		} else {
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. Avatar uploads will not be available")
	}

	// Request metrics recorder shared by middleware and /api/metrics
	recorder := services.NewRecorder()
	handlers.InitMonitoring(recorder)

	// Periodic cleanup of expired magic link tokens
	services.StartTokenSweep(0)
	log.Println("✅ Magic link token sweep started")

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestMetrics(recorder))
	r.Use(middleware.GlobalRateLimit)

	routes.SetupRoutes(r, cfg)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":"Route not found"}`))
	})

	log.Println("📋 Registered routes:")
	log.Println("  POST   /api/auth/request-magic-link")
	log.Println("  POST   /api/auth/verify-magic-link")
	log.Println("  GET    /api/auth/me")
	log.Println("  POST   /api/auth/logout")
	log.Println("  GET    /api/users/profile")
	log.Println("  PUT    /api/users/profile")
	log.Println("  POST   /api/users/mood")
	log.Println("  GET    /api/users/mood-history")
	log.Println("  POST   /api/users/music-interaction")
	log.Println("  GET    /api/users/music-interactions")
	log.Println("  DELETE /api/users/account")
	log.Println("  POST   /api/upload")
	log.Println("  GET    /api/health")
	log.Println("  GET    /api/metrics")

	log.Printf("🚀 Rezo backend running on :%s (%s)", cfg.Port, cfg.Environment)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

// maskURI hides the password part of a connection string for logging.
func maskURI(uri string) string {
	if !strings.Contains(uri, "@") {
		return uri
	}
	at := strings.LastIndex(uri, "@")
	head := uri[:at]
	if colon := strings.LastIndex(head, ":"); colon > strings.Index(head, "//") {
		return head[:colon+1] + "***" + uri[at:]
	}
	return uri
}
