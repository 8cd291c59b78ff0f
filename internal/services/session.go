package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rezoapp/rezo-backend/internal/models"
)

// DefaultSessionTTL is 7 days.
const DefaultSessionTTL = 7 * 24 * time.Hour

var ErrInvalidSession = errors.New("invalid session token")

// SessionClaims is the payload of the bearer token issued after a
// successful magic-link verification.
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Pseudo string `json:"pseudo"`
}

// GenerateSessionToken mints a signed, expiring session credential for
// the user.
func GenerateSessionToken(user *models.User, secret []byte, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: user.ID.Hex(),
		Email:  user.Email,
		Pseudo: user.Pseudo,
	})

	return token.SignedString(secret)
}

// ParseSessionToken verifies the signature and expiry of a session
// credential and returns its claims.
func ParseSessionToken(tokenString string, secret []byte) (*SessionClaims, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidSession
	}

	return claims, nil
}
