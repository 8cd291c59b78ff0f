package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserDefaults(t *testing.T) {
	t.Parallel()

	u := NewUser("nova@example.com", "nova")

	assert.Equal(t, "nova@example.com", u.Email)
	assert.Equal(t, "nova", u.Pseudo)
	assert.False(t, u.IsVerified)
	assert.Equal(t, 1, u.Preferences.OnboardingStep)
	assert.False(t, u.Preferences.OnboardingCompleted)
	assert.Empty(t, u.Preferences.PreferredGenres)
	assert.Empty(t, u.Preferences.MoodHistory)
	assert.Empty(t, u.Preferences.MusicInteractions)
}

func TestMagicLinkTokenLifecycle(t *testing.T) {
	t.Parallel()

	u := NewUser("nova@example.com", "nova")
	expiry := time.Now().Add(10 * time.Minute)

	u.SetMagicLinkToken("digest", expiry)
	assert.Equal(t, "digest", u.MagicLinkToken)
	require.NotNil(t, u.MagicLinkExpires)
	assert.True(t, u.MagicLinkExpires.Equal(expiry))

	u.ClearMagicLinkToken()
	assert.Empty(t, u.MagicLinkToken)
	assert.Nil(t, u.MagicLinkExpires)
}

func TestAddMoodEntryCapsHistory(t *testing.T) {
	t.Parallel()

	u := NewUser("nova@example.com", "nova")
	base := time.Now()

	for i := 0; i < MaxMoodHistory+5; i++ {
		u.AddMoodEntry(fmt.Sprintf("mood-%d", i), base.Add(time.Duration(i)*time.Minute))
	}

	require.Len(t, u.Preferences.MoodHistory, MaxMoodHistory)
	// Oldest entries were dropped, the newest one kept.
	assert.Equal(t, "mood-5", u.Preferences.MoodHistory[0].Mood)
	assert.Equal(t, fmt.Sprintf("mood-%d", MaxMoodHistory+4), u.Preferences.MoodHistory[MaxMoodHistory-1].Mood)
}

func TestAddMusicInteractionLikesBecomeGenres(t *testing.T) {
	t.Parallel()

	u := NewUser("nova@example.com", "nova")
	now := time.Now()

	like := func(id string) MusicInteraction {
		return MusicInteraction{
			Content:   ContentRef{ID: id, Title: "Track " + id, Type: "track"},
			Type:      InteractionLike,
			Timestamp: now,
		}
	}

	u.AddMusicInteraction(like("a"))
	assert.Len(t, u.Preferences.PreferredGenres, 1)
	assert.False(t, u.Preferences.OnboardingCompleted)

	u.AddMusicInteraction(like("b"))
	assert.Len(t, u.Preferences.PreferredGenres, 2)
	assert.True(t, u.Preferences.OnboardingCompleted)

	// Further likes do not grow the genre list past the cap.
	u.AddMusicInteraction(like("c"))
	assert.Len(t, u.Preferences.PreferredGenres, MaxPreferredGenres)
	assert.Len(t, u.Preferences.MusicInteractions, 3)
}

func TestAddMusicInteractionDislikeAddsNoGenre(t *testing.T) {
	t.Parallel()

	u := NewUser("nova@example.com", "nova")
	u.AddMusicInteraction(MusicInteraction{
		Content:   ContentRef{ID: "x", Title: "Track X", Type: "track"},
		Type:      InteractionDislike,
		Timestamp: time.Now(),
	})

	assert.Empty(t, u.Preferences.PreferredGenres)
	assert.Len(t, u.Preferences.MusicInteractions, 1)
	assert.False(t, u.Preferences.OnboardingCompleted)
}

func TestOnboardingCompletionIsSticky(t *testing.T) {
	t.Parallel()

	u := NewUser("nova@example.com", "nova")
	u.Preferences.OnboardingCompleted = true

	u.AddMusicInteraction(MusicInteraction{
		Content:   ContentRef{ID: "y", Title: "Track Y", Type: "track"},
		Type:      InteractionSkip,
		Timestamp: time.Now(),
	})

	assert.True(t, u.Preferences.OnboardingCompleted)
}

func TestTruncatePreferredGenres(t *testing.T) {
	t.Parallel()

	u := NewUser("nova@example.com", "nova")
	for i := 0; i < 4; i++ {
		u.Preferences.PreferredGenres = append(u.Preferences.PreferredGenres, GenreRecord{
			ID: fmt.Sprintf("g%d", i),
		})
	}

	u.TruncatePreferredGenres()
	require.Len(t, u.Preferences.PreferredGenres, MaxPreferredGenres)
	assert.Equal(t, "g0", u.Preferences.PreferredGenres[0].ID)
	assert.Equal(t, "g1", u.Preferences.PreferredGenres[1].ID)
}

func TestPublicMapHidesTokenMaterial(t *testing.T) {
	t.Parallel()

	u := NewUser("nova@example.com", "nova")
	u.SetMagicLinkToken("digest", time.Now().Add(10*time.Minute))

	m := u.PublicMap()
	assert.Equal(t, "nova@example.com", m["email"])
	assert.NotContains(t, m, "magicLinkToken")
	assert.NotContains(t, m, "magic_link_token")
	assert.NotContains(t, m, "avatar")

	u.Avatar = "https://cdn.example.com/a.png"
	assert.Contains(t, u.PublicMap(), "avatar")
}
