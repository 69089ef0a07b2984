package workers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusPayload(t *testing.T) {
	// messages may carry arbitrary text; the event must stay valid JSON
	payload := statusPayload("q1", "failed", `fetch of "audio.wav" failed`)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "status", decoded["type"])
	assert.Equal(t, "failed", decoded["status"])
	assert.Equal(t, `fetch of "audio.wav" failed`, decoded["message"])
	assert.Equal(t, "q1", decoded["question_id"])
}

func TestNormalizeSpeechLanguage(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{in: "", expected: "en-US"},
		{in: "en", expected: "en-US"},
		{in: "en-US", expected: "en-US"},
		{in: "es", expected: "es-ES"},
		{in: "es-ES", expected: "es-ES"},
		{in: "fr-FR", expected: "fr-FR"},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.expected, normalizeSpeechLanguage(tc.in))
		})
	}
}
