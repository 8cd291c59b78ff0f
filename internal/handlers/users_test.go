package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateProfileRejectsBadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed json", `{`, "Invalid request body"},
		{"pseudo too short", `{"pseudo":"x"}`, "Pseudo must be at least 2 characters"},
		{"pseudo with email", `{"pseudo":"nova@example.com"}`, "Pseudo must not contain personal information or inappropriate content"},
		{"toxic pseudo", `{"pseudo":"connard"}`, "Pseudo must not contain personal information or inappropriate content"},
		{"avatar not a url", `{"avatar":"not a url"}`, "Avatar must be a valid URL"},
		{"avatar wrong scheme", `{"avatar":"ftp://example.com/a.png"}`, "Avatar must be a valid URL"},
		{"too many genres", `{"preferences":{"preferredGenres":[{"id":"a"},{"id":"b"},{"id":"c"}]}}`, "At most 2 preferred genres are allowed"},
		{"step too low", `{"preferences":{"onboardingStep":0}}`, "Onboarding step must be between 1 and 5"},
		{"step too high", `{"preferences":{"onboardingStep":6}}`, "Onboarding step must be between 1 and 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, UpdateProfile, "/api/users/profile", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			payload := decodeErrorBody(t, rec)
			assert.Equal(t, tt.want, payload["error"])
		})
	}
}

func TestUpdateProfileWithoutSession(t *testing.T) {
	t.Parallel()

	// Valid body, but no authenticated session on the request.
	rec := postJSON(t, UpdateProfile, "/api/users/profile", `{"pseudo":"nova"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecordMoodRejectsBadInput(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{`, `{}`, `{"mood":""}`, `{"mood":"   "}`} {
		rec := postJSON(t, RecordMood, "/api/users/mood", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestRecordMusicInteractionRejectsBadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing content", `{"type":"like"}`, "Content id, title and type are required"},
		{"missing title", `{"content":{"id":"a","type":"track"},"type":"like"}`, "Content id, title and type are required"},
		{"unknown type", `{"content":{"id":"a","title":"T","type":"track"},"type":"love"}`, "Interaction type must be like, dislike or skip"},
		{"negative time", `{"content":{"id":"a","title":"T","type":"track"},"type":"like","timeSpent":-1}`, "Time spent cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, RecordMusicInteraction, "/api/users/music-interaction", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			payload := decodeErrorBody(t, rec)
			assert.Equal(t, tt.want, payload["error"])
		})
	}
}

func TestProfileEndpointsRequireSession(t *testing.T) {
	t.Parallel()

	handlers := map[string]http.HandlerFunc{
		"profile":            GetProfile,
		"mood-history":       GetMoodHistory,
		"music-interactions": GetMusicInteractions,
		"account":            DeleteAccount,
	}

	for name, handler := range handlers {
		req := httptest.NewRequest(http.MethodGet, "/api/users/"+name, nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
	}
}
