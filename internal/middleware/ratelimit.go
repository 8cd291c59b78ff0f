package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rezoapp/rezo-backend/internal/database"
	"github.com/rezoapp/rezo-backend/pkg/clientip"
)

const (
	// Global limiter: 100 requests per 15 minutes per IP
	GlobalRateLimitWindow = 15 * time.Minute
	GlobalRateLimitMax    = 100

	// Magic links: 3 requests per 15 minutes per IP
	MagicLinkRateLimitWindow = 15 * time.Minute
	MagicLinkRateLimitMax    = 3

	rateLimitKeyPrefix = "ratelimit:"
)

// GlobalRateLimit applies the general per-IP request budget.
func GlobalRateLimit(next http.Handler) http.Handler {
	return rateLimit("global", GlobalRateLimitWindow, GlobalRateLimitMax,
		"Too many requests. Please try again later.")(next)
}

// MagicLinkRateLimit protects the magic-link endpoint from abuse.
func MagicLinkRateLimit(next http.Handler) http.Handler {
	return rateLimit("magiclink", MagicLinkRateLimitWindow, MagicLinkRateLimitMax,
		"Too many magic link requests. Please try again in 15 minutes.")(next)
}

// rateLimit is a Redis fixed-window counter per IP. Redis failures fail
// open: the request is allowed rather than the API going down with it.
func rateLimit(name string, window time.Duration, max int, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientip.FromRequest(r)
			key := rateLimitKeyPrefix + name + ":" + ip

			ctx := context.Background()
			count, err := database.RedisClient.Incr(ctx, key).Result()
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				database.RedisClient.Expire(ctx, key, window)
			}

			if count > int64(max) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				w.WriteHeader(http.StatusTooManyRequests)
				fmt.Fprintf(w, `{"success":false,"error":%q}`, message)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(max))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max-int(count)))

			next.ServeHTTP(w, r)
		})
	}
}
