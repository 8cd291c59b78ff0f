package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPersonalInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"phone number", "appelle moi au 0612345678", true},
		{"international phone", "+33612345678", true},
		{"email address", "contact nova@example.com", true},
		{"street address", "12 rue de la Paix", true},
		{"postal code", "paris 75001", true},
		{"card number", "4111 1111 1111 1111", true},
		{"birth date", "né le 24/12/1999", true},
		{"plain pseudo", "nova", false},
		{"pseudo with digits", "nova42", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsPersonalInfo(tt.text), tt.text)
		})
	}
}

func TestContainsToxicContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"plain insult", "connard", true},
		{"uppercase", "CONNARD", true},
		{"leet obfuscation", "c0nn@rd", true},
		{"repeated letters", "connnnnard", true},
		{"harassment phrase", "ferme ta gueule", true},
		{"clean pseudo", "nova", false},
		{"clean phrase", "jazz lover", false},
		// "computed" contains "pute" as a substring but not as a word
		{"substring is not a word match", "computed", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsToxicContent(tt.text), tt.text)
		})
	}
}

func TestIsCleanPseudo(t *testing.T) {
	t.Parallel()

	assert.True(t, IsCleanPseudo("nova"))
	assert.True(t, IsCleanPseudo("MelodyFan"))
	assert.False(t, IsCleanPseudo("nova@example.com"))
	assert.False(t, IsCleanPseudo("connard"))
}

func TestNormalizeText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "conard", normalizeText("C0nn@rd"))
	assert.Equal(t, "jaz lover", normalizeText("jazz   LOVER?"))
	assert.Equal(t, "creve", normalizeText("crèèève"))
}
