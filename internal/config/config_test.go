package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseSessionTTL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 7*24*time.Hour, parseSessionTTL("7d"))
	assert.Equal(t, 24*time.Hour, parseSessionTTL("1D"))
	assert.Equal(t, 168*time.Hour, parseSessionTTL("168h"))
	assert.Equal(t, 30*time.Minute, parseSessionTTL("30m"))

	// Garbage and non-positive values fall back to the 7-day default.
	assert.Equal(t, 7*24*time.Hour, parseSessionTTL(""))
	assert.Equal(t, 7*24*time.Hour, parseSessionTTL("soon"))
	assert.Equal(t, 7*24*time.Hour, parseSessionTTL("0d"))
	assert.Equal(t, 7*24*time.Hour, parseSessionTTL("-3d"))
}

func TestParseMillis(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 600*time.Second, parseMillis("600000", time.Minute))
	assert.Equal(t, time.Minute, parseMillis("", time.Minute))
	assert.Equal(t, time.Minute, parseMillis("abc", time.Minute))
	assert.Equal(t, time.Minute, parseMillis("-5", time.Minute))
}

func TestParseOrigins(t *testing.T) {
	t.Parallel()

	assert.Nil(t, parseOrigins(""))
	assert.Equal(t,
		[]string{"http://localhost:3000", "https://rezo.app"},
		parseOrigins(" http://localhost:3000 , https://rezo.app ,"))
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"ENV", "MONGODB_URI", "MONGO_URI", "REDIS_URI", "JWT_SECRET",
		"JWT_EXPIRES_IN", "MAGIC_LINK_EXPIRY", "PORT", "FRONTEND_URL",
		"PRODUCTION_FRONTEND_URL", "ALLOWED_ORIGINS",
		"EMAIL_PROVIDER", "EMAIL_HOST", "RESEND_API_KEY",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "mongodb://localhost:27017/rezo-db", cfg.MongoURI)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURI)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10*time.Minute, cfg.MagicLinkTTL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	// Development without SMTP credentials logs links instead of sending.
	assert.Equal(t, "log", cfg.EmailProvider)
}

func TestLoadProviderSelection(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("EMAIL_PROVIDER", "")
	t.Setenv("EMAIL_HOST", "")

	t.Setenv("RESEND_API_KEY", "re_test")
	assert.Equal(t, "resend", Load().EmailProvider)

	t.Setenv("RESEND_API_KEY", "")
	t.Setenv("EMAIL_HOST", "smtp.example.com")
	assert.Equal(t, "smtp", Load().EmailProvider)

	t.Setenv("EMAIL_HOST", "")
	t.Setenv("EMAIL_PROVIDER", "SMTP")
	assert.Equal(t, "smtp", Load().EmailProvider)
}

func TestLoadOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://rezo.app,https://staging.rezo.app")
	t.Setenv("FRONTEND_URL", "http://localhost:3000")

	cfg := Load()
	assert.Equal(t, []string{"https://rezo.app", "https://staging.rezo.app"}, cfg.AllowedOrigins)
}

func TestLoadOriginsFromFrontendURL(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("FRONTEND_URL", "https://rezo.app")
	t.Setenv("PRODUCTION_FRONTEND_URL", "https://www.rezo.app")

	cfg := Load()
	assert.Equal(t, []string{"https://rezo.app", "https://www.rezo.app"}, cfg.AllowedOrigins)
}

func TestLoadSessionTTLFromEnv(t *testing.T) {
	t.Setenv("JWT_EXPIRES_IN", "1d")
	assert.Equal(t, 24*time.Hour, Load().SessionTTL)
}
