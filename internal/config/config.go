package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	MongoURI       string
	RedisURI       string
	JWTSecret      string
	SessionTTL     time.Duration // JWT_EXPIRES_IN, e.g. "7d" or "168h"
	MagicLinkTTL   time.Duration // MAGIC_LINK_EXPIRY in milliseconds
	Port           string
	FrontendURL    string
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL(s)
	Environment    string   // ENV: production, development, etc.

	EmailProvider string // smtp, resend or log
	EmailHost     string
	EmailPort     string
	EmailUser     string
	EmailPass     string
	EmailFrom     string
	ResendAPIKey  string

	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	// CORS: allow multiple origins so the production frontend works
	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:3000"), getEnv("PRODUCTION_FRONTEND_URL", "")} {
			u = strings.TrimSpace(u)
			if u != "" && !containsOrigin(allowedOrigins, u) {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	// Resend wins when a key is present; without any email credentials in
	// development, fall back to logging the links instead of sending them
	defaultProvider := "smtp"
	if getEnv("RESEND_API_KEY", "") != "" {
		defaultProvider = "resend"
	} else if env != "production" && getEnv("EMAIL_HOST", "") == "" {
		defaultProvider = "log"
	}

	return &Config{
		MongoURI:       getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/rezo-db")),
		RedisURI:       getEnv("REDIS_URI", "redis://localhost:6379/0"),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		SessionTTL:     parseSessionTTL(getEnv("JWT_EXPIRES_IN", "7d")),
		MagicLinkTTL:   parseMillis(getEnv("MAGIC_LINK_EXPIRY", ""), 10*time.Minute),
		Port:           getEnv("PORT", "8080"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		AllowedOrigins: allowedOrigins,
		Environment:    env,

		EmailProvider: strings.ToLower(getEnv("EMAIL_PROVIDER", defaultProvider)),
		EmailHost:     getEnv("EMAIL_HOST", ""),
		EmailPort:     getEnv("EMAIL_PORT", "587"),
		EmailUser:     getEnv("EMAIL_USER", ""),
		EmailPass:     getEnv("EMAIL_PASS", ""),
		EmailFrom:     getEnv("EMAIL_FROM", "Rezo <no-reply@rezo.app>"),
		ResendAPIKey:  getEnv("RESEND_API_KEY", ""),

		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
	}
}

// parseSessionTTL accepts either a Go duration ("168h") or a day suffix
// ("7d"), which is how the session lifetime has always been configured.
func parseSessionTTL(s string) time.Duration {
	s = strings.TrimSpace(strings.ToLower(s))
	if strings.HasSuffix(s, "d") {
		if days, err := strconv.Atoi(strings.TrimSuffix(s, "d")); err == nil && days > 0 {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return 7 * 24 * time.Hour
}

// parseMillis reads an integer number of milliseconds.
func parseMillis(s string, fallback time.Duration) time.Duration {
	if ms, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func containsOrigin(list []string, o string) bool {
	o = strings.TrimSpace(strings.ToLower(o))
	for _, v := range list {
		if strings.TrimSpace(strings.ToLower(v)) == o {
			return true
		}
	}
	return false
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
