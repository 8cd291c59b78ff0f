package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinPseudoLength = 2
	MaxPseudoLength = 20
)

var (
	emailRegex = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,})+$`)
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NormalizeEmail lowercases and trims an address for lookups and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the address format.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return &ValidationError{Field: "email", Message: "Email is required"}
	}
	if !emailRegex.MatchString(email) {
		return &ValidationError{Field: "email", Message: "Invalid email address"}
	}
	return nil
}

// ValidatePseudo validates the display-name bounds.
// Content moderation (personal info, toxic words) happens separately.
func ValidatePseudo(pseudo string) error {
	pseudo = strings.TrimSpace(pseudo)
	n := utf8.RuneCountInString(pseudo)

	if n < MinPseudoLength {
		return &ValidationError{Field: "pseudo", Message: "Pseudo must be at least 2 characters"}
	}
	if n > MaxPseudoLength {
		return &ValidationError{Field: "pseudo", Message: "Pseudo must be at most 20 characters"}
	}
	return nil
}
