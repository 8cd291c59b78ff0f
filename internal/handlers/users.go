package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rezoapp/rezo-backend/internal/models"
	"github.com/rezoapp/rezo-backend/internal/services"
	"github.com/rezoapp/rezo-backend/pkg/utils"
)

// PreferencesPatch is the partial preferences update accepted by the
// profile endpoint. Absent fields are left untouched.
type PreferencesPatch struct {
	PreferredGenres     *[]models.GenreRecord `json:"preferredGenres,omitempty"`
	OnboardingCompleted *bool                 `json:"onboardingCompleted,omitempty"`
	OnboardingStep      *int                  `json:"onboardingStep,omitempty"`
}

type UpdateProfileRequest struct {
	Pseudo      *string           `json:"pseudo,omitempty"`
	Avatar      *string           `json:"avatar,omitempty"`
	Preferences *PreferencesPatch `json:"preferences,omitempty"`
}

type RecordMoodRequest struct {
	Mood string `json:"mood"`
}

type MusicInteractionRequest struct {
	Content   models.ContentRef `json:"content"`
	Type      string            `json:"type"`
	TimeSpent float64           `json:"timeSpent,omitempty"`
}

// GetProfile handles GET /api/users/profile.
func GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user": user.PublicMap(),
	})
}

// UpdateProfile handles PUT /api/users/profile. The update is partial:
// only supplied fields change, and the preferences sub-object is
// shallow-merged.
func UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Validate everything before touching storage
	if req.Pseudo != nil {
		pseudo := strings.TrimSpace(*req.Pseudo)
		if err := utils.ValidatePseudo(pseudo); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if !services.IsCleanPseudo(pseudo) {
			respondError(w, http.StatusBadRequest, "Pseudo must not contain personal information or inappropriate content")
			return
		}
	}
	if req.Avatar != nil {
		if parsed, err := url.Parse(*req.Avatar); err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			respondError(w, http.StatusBadRequest, "Avatar must be a valid URL")
			return
		}
	}
	if req.Preferences != nil {
		if req.Preferences.PreferredGenres != nil && len(*req.Preferences.PreferredGenres) > models.MaxPreferredGenres {
			respondError(w, http.StatusBadRequest, "At most 2 preferred genres are allowed")
			return
		}
		if req.Preferences.OnboardingStep != nil {
			if step := *req.Preferences.OnboardingStep; step < 1 || step > 5 {
				respondError(w, http.StatusBadRequest, "Onboarding step must be between 1 and 5")
				return
			}
		}
	}

	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	if req.Pseudo != nil {
		user.Pseudo = strings.TrimSpace(*req.Pseudo)
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Preferences != nil {
		if req.Preferences.PreferredGenres != nil {
			genres := *req.Preferences.PreferredGenres
			now := time.Now()
			for i := range genres {
				if genres[i].Type == "" {
					genres[i].Type = "genre"
				}
				if genres[i].SelectedAt.IsZero() {
					genres[i].SelectedAt = now
				}
			}
			user.Preferences.PreferredGenres = genres
		}
		if req.Preferences.OnboardingStep != nil {
			user.Preferences.OnboardingStep = *req.Preferences.OnboardingStep
		}
		// Completion is sticky: a client can mark it done but never undo it
		if req.Preferences.OnboardingCompleted != nil && *req.Preferences.OnboardingCompleted {
			user.Preferences.OnboardingCompleted = true
		}
	}
	if user.CheckOnboardingCompletion() {
		user.Preferences.OnboardingCompleted = true
	}

	if err := services.SaveUser(user); err != nil {
		var verr *utils.ValidationError
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, verr.Message)
			return
		}
		if errors.Is(err, services.ErrDuplicateEmail) {
			respondError(w, http.StatusConflict, "Email already registered")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated",
		"user":    user.PublicMap(),
	})
}

// RecordMood handles POST /api/users/mood.
func RecordMood(w http.ResponseWriter, r *http.Request) {
	var req RecordMoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Mood) == "" {
		respondError(w, http.StatusBadRequest, "Mood is required")
		return
	}

	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	entry := user.AddMoodEntry(strings.TrimSpace(req.Mood), time.Now())

	if err := services.SaveUser(user); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to record mood")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Mood recorded",
		"mood":      entry.Mood,
		"timestamp": entry.Timestamp,
	})
}

// GetMoodHistory handles GET /api/users/mood-history.
func GetMoodHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	history := user.Preferences.MoodHistory
	if history == nil {
		history = []models.MoodEntry{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"moodHistory": history,
	})
}

// RecordMusicInteraction handles POST /api/users/music-interaction.
// A "like" may also add a preferred genre while onboarding is underway.
func RecordMusicInteraction(w http.ResponseWriter, r *http.Request) {
	var req MusicInteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Content.ID == "" || req.Content.Title == "" || req.Content.Type == "" {
		respondError(w, http.StatusBadRequest, "Content id, title and type are required")
		return
	}
	switch req.Type {
	case models.InteractionLike, models.InteractionDislike, models.InteractionSkip:
	default:
		respondError(w, http.StatusBadRequest, "Interaction type must be like, dislike or skip")
		return
	}
	if req.TimeSpent < 0 {
		respondError(w, http.StatusBadRequest, "Time spent cannot be negative")
		return
	}

	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	interaction := models.MusicInteraction{
		Content:   req.Content,
		Type:      req.Type,
		Timestamp: time.Now(),
		TimeSpent: req.TimeSpent,
	}
	user.AddMusicInteraction(interaction)

	if err := services.SaveUser(user); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to record interaction")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":             "Interaction recorded",
		"interaction":         interaction,
		"preferredGenres":     user.Preferences.PreferredGenres,
		"onboardingCompleted": user.Preferences.OnboardingCompleted,
	})
}

// GetMusicInteractions handles GET /api/users/music-interactions.
func GetMusicInteractions(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	interactions := user.Preferences.MusicInteractions
	if interactions == nil {
		interactions = []models.MusicInteraction{}
	}
	genres := user.Preferences.PreferredGenres
	if genres == nil {
		genres = []models.GenreRecord{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"musicInteractions": interactions,
		"preferredGenres":   genres,
	})
}

// DeleteAccount handles DELETE /api/users/account.
func DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	if err := services.DeleteUser(user.ID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete account")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Account deleted",
	})
}
