package utils

import "math"

// ClampScore forces a raw evaluation score into the [0,100] contract.
// The generative service is not trusted to respect the schema bounds.
func ClampScore(raw float64) int {
	if raw < 0 {
		return 0
	}
	if raw > 100 {
		return 100
	}
	return int(math.Round(raw))
}

// RoundPercent rounds half-up to the nearest integer. Every percentage-like
// field (confidence, average scores) goes through this so display values are
// identical everywhere.
func RoundPercent(v float64) int {
	return int(math.Floor(v + 0.5))
}
