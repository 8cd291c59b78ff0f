package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rezoapp/rezo-backend/internal/services"
)

type contextKey string

const sessionClaimsKey contextKey = "sessionClaims"

// Authenticate requires a valid bearer session token. Missing credential
// is 401, a credential that fails signature or expiry checks is 403.
// Whether the referenced user still exists is the handler's concern.
func Authenticate(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				writeAuthError(w, http.StatusUnauthorized, "Access token required")
				return
			}

			tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			if tokenString == "" {
				writeAuthError(w, http.StatusUnauthorized, "Access token required")
				return
			}

			claims, err := services.ParseSessionToken(tokenString, secret)
			if err != nil {
				writeAuthError(w, http.StatusForbidden, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), sessionClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionClaims returns the claims Authenticate stored on the request.
func SessionClaims(r *http.Request) (*services.SessionClaims, bool) {
	claims, ok := r.Context().Value(sessionClaimsKey).(*services.SessionClaims)
	return claims, ok
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"success":false,"error":"` + message + `"}`))
}
