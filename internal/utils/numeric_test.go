package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampScore(t *testing.T) {
	testCases := []struct {
		name     string
		raw      float64
		expected int
	}{
		{name: "negative clamps to zero", raw: -10, expected: 0},
		{name: "above range clamps to hundred", raw: 150, expected: 100},
		{name: "in range passes through", raw: 73, expected: 73},
		{name: "fraction rounds", raw: 72.5, expected: 73},
		{name: "zero stays zero", raw: 0, expected: 0},
		{name: "hundred stays hundred", raw: 100, expected: 100},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ClampScore(tc.raw))
		})
	}
}

func TestRoundPercent(t *testing.T) {
	testCases := []struct {
		name     string
		in       float64
		expected int
	}{
		{name: "half rounds up", in: 79.5, expected: 80},
		{name: "below half rounds down", in: 79.4, expected: 79},
		{name: "whole stays", in: 80, expected: 80},
		{name: "zero stays", in: 0, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, RoundPercent(tc.in))
		})
	}
}
