package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// MaxPreferredGenres caps the onboarding genre picks.
	MaxPreferredGenres = 2
	// MaxMoodHistory caps the mood history; oldest entries are dropped first.
	MaxMoodHistory = 50
)

// Interaction kinds accepted for music interactions.
const (
	InteractionLike    = "like"
	InteractionDislike = "dislike"
	InteractionSkip    = "skip"
)

// AudioFeatures are the Spotify-style feature scores attached to content.
type AudioFeatures struct {
	Danceability float64 `bson:"danceability,omitempty" json:"danceability,omitempty"`
	Energy       float64 `bson:"energy,omitempty" json:"energy,omitempty"`
	Valence      float64 `bson:"valence,omitempty" json:"valence,omitempty"`
	Acousticness float64 `bson:"acousticness,omitempty" json:"acousticness,omitempty"`
}

// GenreRecord is one of the user's preferred genres, derived from liked
// content during onboarding.
type GenreRecord struct {
	ID            string        `bson:"id" json:"id"`
	Title         string        `bson:"title" json:"title"`
	Type          string        `bson:"type" json:"type"`
	SpotifyGenres []string      `bson:"spotify_genres,omitempty" json:"spotifyGenres,omitempty"`
	AudioFeatures AudioFeatures `bson:"audio_features,omitempty" json:"audioFeatures,omitempty"`
	SelectedAt    time.Time     `bson:"selected_at" json:"selectedAt"`
}

// ContentRef identifies the piece of content an interaction refers to.
type ContentRef struct {
	ID            string        `bson:"id" json:"id"`
	Title         string        `bson:"title" json:"title"`
	Type          string        `bson:"type" json:"type"`
	SpotifyGenres []string      `bson:"spotify_genres,omitempty" json:"spotifyGenres,omitempty"`
	AudioFeatures AudioFeatures `bson:"audio_features,omitempty" json:"audioFeatures,omitempty"`
}

type MusicInteraction struct {
	Content   ContentRef `bson:"content" json:"content"`
	Type      string     `bson:"type" json:"type"` // like, dislike or skip
	Timestamp time.Time  `bson:"timestamp" json:"timestamp"`
	TimeSpent float64    `bson:"time_spent,omitempty" json:"timeSpent,omitempty"`
}

type MoodEntry struct {
	Mood      string    `bson:"mood" json:"mood"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

type Preferences struct {
	PreferredGenres     []GenreRecord      `bson:"preferred_genres" json:"preferredGenres"`
	MusicInteractions   []MusicInteraction `bson:"music_interactions" json:"musicInteractions"`
	MoodHistory         []MoodEntry        `bson:"mood_history" json:"moodHistory"`
	OnboardingCompleted bool               `bson:"onboarding_completed" json:"onboardingCompleted"`
	OnboardingStep      int                `bson:"onboarding_step" json:"onboardingStep"`
}

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`

	Email      string `bson:"email" json:"email"`
	Pseudo     string `bson:"pseudo" json:"pseudo"`
	Avatar     string `bson:"avatar,omitempty" json:"avatar,omitempty"`
	IsVerified bool   `bson:"is_verified" json:"isVerified"`

	Preferences Preferences `bson:"preferences" json:"preferences"`

	// Magic link credential material; never serialized to clients
	MagicLinkToken   string     `bson:"magic_link_token,omitempty" json:"-"`
	MagicLinkExpires *time.Time `bson:"magic_link_expires,omitempty" json:"-"`

	LastLogin  time.Time `bson:"last_login" json:"lastLogin"`
	LoginCount int       `bson:"login_count" json:"loginCount"`
}

// NewUser returns an unverified user with default preferences.
func NewUser(email, pseudo string) *User {
	now := time.Now()
	return &User{
		CreatedAt: now,
		UpdatedAt: now,
		Email:     email,
		Pseudo:    pseudo,
		Preferences: Preferences{
			PreferredGenres:   []GenreRecord{},
			MusicInteractions: []MusicInteraction{},
			MoodHistory:       []MoodEntry{},
			OnboardingStep:    1,
		},
		LastLogin: now,
	}
}

// SetMagicLinkToken stores the digest and expiry of a freshly issued link.
func (u *User) SetMagicLinkToken(digest string, expiry time.Time) {
	u.MagicLinkToken = digest
	u.MagicLinkExpires = &expiry
}

// ClearMagicLinkToken removes the credential material after use.
func (u *User) ClearMagicLinkToken() {
	u.MagicLinkToken = ""
	u.MagicLinkExpires = nil
}

// AddMoodEntry appends a mood to the history, keeping only the most
// recent MaxMoodHistory entries (oldest dropped first).
func (u *User) AddMoodEntry(mood string, now time.Time) MoodEntry {
	entry := MoodEntry{Mood: mood, Timestamp: now}
	u.Preferences.MoodHistory = append(u.Preferences.MoodHistory, entry)
	if n := len(u.Preferences.MoodHistory); n > MaxMoodHistory {
		u.Preferences.MoodHistory = u.Preferences.MoodHistory[n-MaxMoodHistory:]
	}
	return entry
}

// AddMusicInteraction records an interaction. A "like" also becomes a
// preferred genre while there is still room, and onboarding completes
// once the user has picked MaxPreferredGenres genres. Completion is
// sticky: it never reverts.
func (u *User) AddMusicInteraction(mi MusicInteraction) {
	u.Preferences.MusicInteractions = append(u.Preferences.MusicInteractions, mi)

	if mi.Type == InteractionLike && len(u.Preferences.PreferredGenres) < MaxPreferredGenres {
		u.Preferences.PreferredGenres = append(u.Preferences.PreferredGenres, GenreRecord{
			ID:            mi.Content.ID,
			Title:         mi.Content.Title,
			Type:          mi.Content.Type,
			SpotifyGenres: mi.Content.SpotifyGenres,
			AudioFeatures: mi.Content.AudioFeatures,
			SelectedAt:    mi.Timestamp,
		})
	}

	if u.CheckOnboardingCompletion() {
		u.Preferences.OnboardingCompleted = true
	}
}

// CheckOnboardingCompletion reports whether enough genres were picked.
func (u *User) CheckOnboardingCompletion() bool {
	return len(u.Preferences.PreferredGenres) >= MaxPreferredGenres
}

// TruncatePreferredGenres silently enforces the genre cap before a save.
func (u *User) TruncatePreferredGenres() {
	if len(u.Preferences.PreferredGenres) > MaxPreferredGenres {
		u.Preferences.PreferredGenres = u.Preferences.PreferredGenres[:MaxPreferredGenres]
	}
}

// PublicMap returns the user fields exposed to clients.
func (u *User) PublicMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":          u.ID.Hex(),
		"email":       u.Email,
		"pseudo":      u.Pseudo,
		"isVerified":  u.IsVerified,
		"preferences": u.Preferences,
		"lastLogin":   u.LastLogin,
		"loginCount":  u.LoginCount,
		"joinedAt":    u.CreatedAt,
	}
	if u.Avatar != "" {
		m["avatar"] = u.Avatar
	}
	return m
}
