package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDifficulty(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{in: "junior", expected: DifficultyEasy},
		{in: "easy", expected: DifficultyEasy},
		{in: "fácil", expected: DifficultyEasy},
		{in: "facil", expected: DifficultyEasy},
		{in: "mid", expected: DifficultyMedium},
		{in: "medium", expected: DifficultyMedium},
		{in: "media", expected: DifficultyMedium},
		{in: "medio", expected: DifficultyMedium},
		{in: "senior", expected: DifficultyHard},
		{in: "hard", expected: DifficultyHard},
		{in: "difícil", expected: DifficultyHard},
		{in: "dificil", expected: DifficultyHard},
		{in: "  Easy  ", expected: DifficultyEasy},
		{in: "HARD", expected: DifficultyHard},
		// lenient default: the generative vocabulary is not controlled
		{in: "whatever", expected: DifficultyMedium},
		{in: "", expected: DifficultyMedium},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeDifficulty(tc.in))
		})
	}
}

func TestTruncateText(t *testing.T) {
	testCases := []struct {
		name     string
		in       string
		max      int
		expected string
	}{
		{name: "under cap", in: "short", max: 10, expected: "short"},
		{name: "exactly cap", in: "exact", max: 5, expected: "exact"},
		{name: "ascii cut", in: "abcdef", max: 3, expected: "abc"},
		{name: "zero cap", in: "abc", max: 0, expected: ""},
		{name: "negative cap", in: "abc", max: -1, expected: ""},
		// "é" is 2 bytes; a cut landing on its second byte backs up
		{name: "mid-rune cut", in: "aé", max: 2, expected: "a"},
		{name: "rune kept when whole", in: "aé", max: 3, expected: "aé"},
		// "世" is 3 bytes
		{name: "mid-rune cut wide", in: "世界", max: 4, expected: "世"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := TruncateText(tc.in, tc.max)
			assert.Equal(t, tc.expected, out)
			assert.True(t, utf8.ValidString(out))
		})
	}
}

func TestTruncateTextNeverSplitsRunes(t *testing.T) {
	in := strings.Repeat("é", 100)
	for max := 0; max <= len(in); max++ {
		out := TruncateText(in, max)
		assert.True(t, utf8.ValidString(out), "max=%d", max)
		assert.LessOrEqual(t, len(out), max)
	}
}
