package utils

import (
	"strings"
	"unicode/utf8"
)

// Difficulty levels used across questions and statistics.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// NormalizeDifficulty maps a free-form difficulty token onto the closed
// three-level scale. The generative service answers in whatever vocabulary
// the prompt language suggests, so synonyms in English and Spanish are
// folded in here. Unknown tokens fall back to medium instead of failing.
func NormalizeDifficulty(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "easy", "junior", "facil", "fácil", "beginner", "basic":
		return DifficultyEasy
	case "hard", "senior", "dificil", "difícil", "advanced", "expert":
		return DifficultyHard
	case "medium", "mid", "media", "medio", "intermediate":
		return DifficultyMedium
	default:
		return DifficultyMedium
	}
}

// NormalizeLanguage lowercases and trims a language hint ("en", "es", ...).
func NormalizeLanguage(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// TruncateText caps s at max bytes without splitting a multibyte rune: a
// cut that would land inside a rune backs up to the previous boundary, so
// the result is always valid UTF-8 when the input is. Text that crosses
// service boundaries (grounding documents, prompts, summaries) must stay
// valid; bson rejects invalid UTF-8 strings outright.
func TruncateText(s string, max int) string {
	if max < 0 {
		max = 0
	}
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
