package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rezoapp/rezo-backend/internal/config"
	"github.com/rezoapp/rezo-backend/internal/middleware"
	"github.com/rezoapp/rezo-backend/internal/models"
	"github.com/rezoapp/rezo-backend/internal/services"
	"github.com/rezoapp/rezo-backend/pkg/utils"
)

var (
	authConfig  *config.Config
	emailSender services.EmailSender
)

// InitAuth wires the auth handlers with configuration and the email
// provider selected at startup.
func InitAuth(cfg *config.Config, sender services.EmailSender) {
	authConfig = cfg
	emailSender = sender
}

type RequestMagicLinkRequest struct {
	Email string `json:"email"`
}

type VerifyMagicLinkRequest struct {
	Token  string `json:"token"`
	Email  string `json:"email"`
	Pseudo string `json:"pseudo,omitempty"`
}

// RequestMagicLink handles POST /api/auth/request-magic-link.
// The response acknowledges the email address only; the token travels
// exclusively through the magic link mail.
func RequestMagicLink(w http.ResponseWriter, r *http.Request) {
	var req RequestMagicLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := utils.NormalizeEmail(req.Email)
	if err := utils.ValidateEmail(email); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Find or create the account; new users get a placeholder pseudo
	// until they verify and pick one
	user, err := services.FindUserByEmail(email)
	if errors.Is(err, services.ErrUserNotFound) {
		user, err = services.CreateUser(email)
		if errors.Is(err, services.ErrDuplicateEmail) {
			// Lost a race with a concurrent request for the same address
			user, err = services.FindUserByEmail(email)
		}
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to send magic link")
		return
	}

	cleartext, digest, expiry, err := services.GenerateMagicToken(authConfig.MagicLinkTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to send magic link")
		return
	}

	user.SetMagicLinkToken(digest, expiry)
	if err := services.SaveUser(user); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to send magic link")
		return
	}

	magicLink := fmt.Sprintf("%s/auth/verify?token=%s&email=%s",
		strings.TrimRight(authConfig.FrontendURL, "/"), cleartext, url.QueryEscape(email))

	if err := emailSender.SendMagicLink(email, magicLink); err != nil {
		log.Printf("❌ Failed to send magic link to %s: %v", email, err)
		respondError(w, http.StatusBadGateway, "Failed to send magic link email")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Magic link sent by email",
		"email":   email,
	})
}

// VerifyMagicLink handles POST /api/auth/verify-magic-link.
func VerifyMagicLink(w http.ResponseWriter, r *http.Request) {
	var req VerifyMagicLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Token == "" {
		respondError(w, http.StatusBadRequest, "Token is required")
		return
	}
	email := utils.NormalizeEmail(req.Email)
	if err := utils.ValidateEmail(email); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := services.FindUserByEmail(email)
	if errors.Is(err, services.ErrUserNotFound) {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Verification failed")
		return
	}

	if !services.VerifyMagicToken(req.Token, user.MagicLinkToken, user.MagicLinkExpires, time.Now()) {
		respondError(w, http.StatusBadRequest, "Invalid or expired magic link")
		return
	}

	isNewUser := !user.IsVerified

	if isNewUser {
		if req.Pseudo == "" {
			// The token stays stored and valid so the client can retry
			// with a pseudo without requesting a fresh link
			respondJSON(w, http.StatusOK, map[string]interface{}{
				"message":        "Pseudo required for new account",
				"requiresPseudo": true,
				"token":          req.Token,
				"user": map[string]interface{}{
					"id":        user.ID.Hex(),
					"email":     user.Email,
					"isNewUser": true,
				},
			})
			return
		}

		pseudo := strings.TrimSpace(req.Pseudo)
		if err := utils.ValidatePseudo(pseudo); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if !services.IsCleanPseudo(pseudo) {
			respondError(w, http.StatusBadRequest, "Pseudo must not contain personal information or inappropriate content")
			return
		}
		user.Pseudo = pseudo
	}

	user.IsVerified = true
	user.LastLogin = time.Now()
	user.LoginCount++
	user.ClearMagicLinkToken()

	if err := services.SaveUser(user); err != nil {
		respondError(w, http.StatusInternalServerError, "Verification failed")
		return
	}

	// Welcome email is best effort: a provider failure must not fail
	// the login itself
	if isNewUser {
		if err := emailSender.SendWelcome(user.Email, user.Pseudo); err != nil {
			log.Printf("⚠️  Failed to send welcome email to %s: %v", user.Email, err)
		}
	}

	sessionToken, err := services.GenerateSessionToken(user, []byte(authConfig.JWTSecret), authConfig.SessionTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Verification failed")
		return
	}

	message := "Login successful"
	if isNewUser {
		message = "Account created and logged in"
	}

	userMap := user.PublicMap()
	userMap["isNewUser"] = isNewUser

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": message,
		"token":   sessionToken,
		"user":    userMap,
	})
}

// GetMe handles GET /api/auth/me for an authenticated session.
func GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user": user.PublicMap(),
	})
}

// Logout handles POST /api/auth/logout. Sessions are stateless JWTs, so
// the client discards the token; the server just acknowledges.
func Logout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Logged out",
	})
}

// sessionUser resolves the authenticated session to a live user record.
// Writes the error response itself when resolution fails: a decoded
// session never reveals more than "user not found" about the account.
func sessionUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	claims, ok := middleware.SessionClaims(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Access token required")
		return nil, false
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		respondError(w, http.StatusForbidden, "Invalid or expired token")
		return nil, false
	}

	user, err := services.FindUserByID(userID)
	if errors.Is(err, services.ErrUserNotFound) {
		respondError(w, http.StatusNotFound, "User not found")
		return nil, false
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Server error")
		return nil, false
	}

	return user, true
}
