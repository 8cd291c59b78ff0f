package services

import (
	"regexp"
	"strings"
	"unicode"
)

// Patterns that reveal personal information. The app's audience is
// French, so the address and phone patterns follow French conventions.
var personalInfoPatterns = []*regexp.Regexp{
	// Phone numbers
	regexp.MustCompile(`(\+33|0)[1-9](\d{8}|\s\d{2}\s\d{2}\s\d{2}\s\d{2})`),
	// Email addresses
	regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	// Street addresses
	regexp.MustCompile(`(?i)\b\d+\s+(rue|avenue|boulevard|place|impasse|allée|chemin|route)\s+`),
	// Postal codes
	regexp.MustCompile(`\b\d{5}\b`),
	// Social security numbers (approximate)
	regexp.MustCompile(`\b[12]\d{2}(0[1-9]|1[0-2])\d{8}\b`),
	// Card numbers
	regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`),
	// Birth dates
	regexp.MustCompile(`\b(0[1-9]|[12]\d|3[01])[/\-](0[1-9]|1[0-2])[/\-](19|20)\d{2}\b`),
}

// Canonical toxic words. Normalized at startup so entries with doubled
// letters still confirm against repeat-collapsed input.
var toxicWords = normalizeWords([]string{
	"connard", "salope", "pute", "merde", "putain", "encule", "batard",
	"fils de pute", "fdp",
	"pede", "tapette", "negro", "bougnoule", "youpin", "raton",
	"nazi", "hitler", "mort aux", "creve", "suicide",
	"bite", "chatte", "niquer",
})

func normalizeWords(words []string) []string {
	normalized := make([]string, len(words))
	for i, w := range words {
		normalized[i] = normalizeText(w)
	}
	return normalized
}

var toxicPatterns = []*regexp.Regexp{
	// Threats
	regexp.MustCompile(`(?i)je vais te (tuer|buter|niquer|defoncer)`),
	// Incitement
	regexp.MustCompile(`(?i)(mort|creve|suicide|tue-toi)`),
	// Harassment
	regexp.MustCompile(`(?i)(ferme ta gueule|ta gueule|degage|casse-toi)`),
}

// normalizeText lowers the text, undoes common character obfuscation
// (l33t digits, lookalike Cyrillic letters, accents) and collapses
// repeated letters, so "C0nn@rrrd" confirms against "connard".
func normalizeText(text string) string {
	cleaned := strings.ToLower(text)

	replacements := map[string]string{
		"@": "a", "4": "a", "3": "e", "!": "i", "1": "i",
		"0": "o", "$": "s", "5": "s", "7": "t", "+": "t",
		"а": "a", "е": "e", "і": "i", "о": "o", "р": "p",
		"à": "a", "â": "a", "é": "e", "è": "e", "ê": "e",
		"î": "i", "ô": "o", "û": "u", "ç": "c",
	}
	for old, repl := range replacements {
		cleaned = strings.ReplaceAll(cleaned, old, repl)
	}

	var builder strings.Builder
	for _, r := range cleaned {
		if unicode.IsLetter(r) {
			builder.WriteRune(r)
		} else {
			builder.WriteRune(' ')
		}
	}
	cleaned = collapseRepeats(builder.String())

	return strings.Join(strings.Fields(cleaned), " ")
}

// collapseRepeats reduces repeated letters to one ("crèèève" -> "creve").
// Spaces are preserved for word separation.
func collapseRepeats(text string) string {
	var result strings.Builder
	lastChar := rune(0)
	lastWasLetter := false

	for _, char := range text {
		isLetter := unicode.IsLetter(char)
		if isLetter && lastWasLetter && char == lastChar {
			continue
		}
		result.WriteRune(char)
		lastChar = char
		lastWasLetter = isLetter
	}
	return result.String()
}

// containsConfirmedWord checks normalized text against the canonical
// dictionary. Single words must match a whole word ("skill" never
// confirms "kill"-style matches); phrases only need to be contained.
func containsConfirmedWord(cleanedText string, baseWords []string) bool {
	words := strings.Fields(cleanedText)

	for _, baseWord := range baseWords {
		if cleanedText == baseWord {
			return true
		}
		if !strings.Contains(cleanedText, baseWord) {
			continue
		}
		if len(strings.Fields(baseWord)) == 1 {
			for _, w := range words {
				if w == baseWord {
					return true
				}
			}
		} else {
			return true
		}
	}
	return false
}

// ContainsPersonalInfo reports whether the text leaks personal details
// such as a phone number, email address or street address.
func ContainsPersonalInfo(text string) bool {
	if text == "" {
		return false
	}
	for _, pattern := range personalInfoPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// ContainsToxicContent reports whether the text contains insults,
// threats or harassment, after obfuscation normalization.
func ContainsToxicContent(text string) bool {
	if text == "" {
		return false
	}
	if containsConfirmedWord(normalizeText(text), toxicWords) {
		return true
	}
	for _, pattern := range toxicPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// IsCleanPseudo reports whether a display name passes moderation.
func IsCleanPseudo(pseudo string) bool {
	return !ContainsPersonalInfo(pseudo) && !ContainsToxicContent(pseudo)
}
