package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/devgrill/devgrill/internal/models"
	"github.com/devgrill/devgrill/internal/utils"
)

func TestGenerateTrimsToRequestedCount(t *testing.T) {
	provider := new(mockProvider)
	// provider over-delivers: 8 questions for a request of 5
	payload := `[
		{"question": "Q1", "difficulty": "easy"},
		{"question": "Q2", "difficulty": "medium"},
		{"question": "Q3", "difficulty": "hard"},
		{"question": "Q4", "difficulty": "medium"},
		{"question": "Q5", "difficulty": "easy"},
		{"question": "Q6", "difficulty": "medium"},
		{"question": "Q7", "difficulty": "hard"},
		{"question": "Q8", "difficulty": "medium"}
	]`
	provider.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything).Return([]byte(payload), nil)

	svc := NewQuestionService(provider, true, testLogger())

	out, err := svc.Generate(context.Background(), "some grounding", 5, "medium", "en")
	require.NoError(t, err)
	require.Len(t, out, 5)
	assert.Equal(t, "Q1", out[0].Text)
	assert.Equal(t, "Q5", out[4].Text)
}

func TestGenerateNormalizesDifficulty(t *testing.T) {
	provider := new(mockProvider)
	payload := `[
		{"question": "Q1", "difficulty": "SENIOR"},
		{"question": "Q2", "difficulty": "fácil"},
		{"question": "Q3", "difficulty": "whatever"}
	]`
	provider.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything).Return([]byte(payload), nil)

	svc := NewQuestionService(provider, true, testLogger())

	out, err := svc.Generate(context.Background(), "grounding", 3, "", "")
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, utils.DifficultyHard, out[0].Difficulty)
	assert.Equal(t, utils.DifficultyEasy, out[1].Difficulty)
	assert.Equal(t, utils.DifficultyMedium, out[2].Difficulty)
}

func TestGenerateSkipsBlankQuestions(t *testing.T) {
	provider := new(mockProvider)
	payload := `[
		{"question": "   ", "difficulty": "easy"},
		{"question": "Real question", "difficulty": "easy"}
	]`
	provider.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything).Return([]byte(payload), nil)

	svc := NewQuestionService(provider, true, testLogger())

	out, err := svc.Generate(context.Background(), "grounding", 5, "", "")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Real question", out[0].Text)
}

func TestGenerateZeroQuestionsIsError(t *testing.T) {
	provider := new(mockProvider)
	provider.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything).Return([]byte(`[]`), nil)

	svc := NewQuestionService(provider, true, testLogger())

	_, err := svc.Generate(context.Background(), "grounding", 5, "", "")
	assert.ErrorIs(t, err, utils.ErrQuestionGeneration)
}

func TestGenerateMalformedPayloadIsError(t *testing.T) {
	provider := new(mockProvider)
	provider.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything).Return([]byte(`{"oops":`), nil)

	svc := NewQuestionService(provider, true, testLogger())

	_, err := svc.Generate(context.Background(), "grounding", 5, "", "")
	assert.ErrorIs(t, err, utils.ErrQuestionGeneration)
}

func TestGenerateProviderErrorWrapped(t *testing.T) {
	provider := new(mockProvider)
	cause := errors.New("quota exceeded")
	provider.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything).Return(nil, cause)

	svc := NewQuestionService(provider, true, testLogger())

	_, err := svc.Generate(context.Background(), "grounding", 5, "", "")
	assert.ErrorIs(t, err, utils.ErrQuestionGeneration)
	assert.ErrorIs(t, err, cause)
}

func TestGenerateAIDisabled(t *testing.T) {
	svc := NewQuestionService(nil, false, testLogger())

	_, err := svc.Generate(context.Background(), "grounding", 5, "", "")
	assert.ErrorIs(t, err, utils.ErrQuestionGeneration)
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))
}

func TestGenerateForInterviewParagraphFallback(t *testing.T) {
	// AI disabled but the grounding is a long-form document: creation
	// degrades to template questions instead of failing.
	svc := NewQuestionService(nil, false, testLogger())

	gc := &models.GroundingContext{
		Kind: models.GroundingDocument,
		Text: "First paragraph about the build system.\n\nSecond paragraph about deployment.",
	}

	out, err := svc.GenerateForInterview(context.Background(), gc, 3, "medium", "en")
	require.NoError(t, err)
	require.Len(t, out, 3)
	for _, q := range out {
		assert.Equal(t, utils.DifficultyMedium, q.Difficulty)
		assert.NotEmpty(t, q.Text)
	}
	// fewer paragraphs than requested: cycling reuses the first
	assert.Contains(t, out[0].Text, "First paragraph")
	assert.Contains(t, out[1].Text, "Second paragraph")
	assert.Contains(t, out[2].Text, "First paragraph")
}

func TestGenerateForInterviewNoFallbackOnBadPayload(t *testing.T) {
	// A reachable provider answering garbage is a hard failure, not a
	// degradation, even over document grounding.
	provider := new(mockProvider)
	provider.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything).Return([]byte(`{"oops":`), nil)

	svc := NewQuestionService(provider, true, testLogger())

	gc := &models.GroundingContext{
		Kind: models.GroundingDocument,
		Text: "First paragraph.\n\nSecond paragraph.",
	}

	_, err := svc.GenerateForInterview(context.Background(), gc, 3, "", "")
	assert.ErrorIs(t, err, utils.ErrQuestionGeneration)
}

func TestGenerateForInterviewNoFallbackOnZeroQuestions(t *testing.T) {
	provider := new(mockProvider)
	provider.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything).Return([]byte(`[]`), nil)

	svc := NewQuestionService(provider, true, testLogger())

	gc := &models.GroundingContext{
		Kind: models.GroundingDocument,
		Text: "First paragraph.\n\nSecond paragraph.",
	}

	_, err := svc.GenerateForInterview(context.Background(), gc, 3, "", "")
	assert.ErrorIs(t, err, utils.ErrQuestionGeneration)
}

func TestGenerateForInterviewFallbackOnProviderError(t *testing.T) {
	// unreachable provider + document grounding: creation degrades
	provider := new(mockProvider)
	provider.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("deadline exceeded"))

	svc := NewQuestionService(provider, true, testLogger())

	gc := &models.GroundingContext{
		Kind: models.GroundingDocument,
		Text: "First paragraph.\n\nSecond paragraph.",
	}

	out, err := svc.GenerateForInterview(context.Background(), gc, 2, "", "")
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestGenerateForInterviewMetadataNoFallback(t *testing.T) {
	svc := NewQuestionService(nil, false, testLogger())

	gc := &models.GroundingContext{
		Kind: models.GroundingMetadata,
		Text: "acme/widget is a source-code repository written primarily in Go.",
	}

	_, err := svc.GenerateForInterview(context.Background(), gc, 3, "", "")
	assert.ErrorIs(t, err, utils.ErrQuestionGeneration)
}

func TestGenerateForInterviewPrefersProvider(t *testing.T) {
	provider := new(mockProvider)
	provider.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything).
		Return([]byte(`[{"question": "Q1", "difficulty": "hard"}]`), nil)

	svc := NewQuestionService(provider, true, testLogger())

	gc := &models.GroundingContext{Kind: models.GroundingDocument, Text: "Paragraph one.\n\nParagraph two."}

	out, err := svc.GenerateForInterview(context.Background(), gc, 1, "", "")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Q1", out[0].Text)
}

func TestParagraphQuestionsSnippetBound(t *testing.T) {
	long := strings.Repeat("a", 500)
	out := paragraphQuestions(long, 1)
	require.Len(t, out, 1)
	// quoted snippet is bounded even when the paragraph is not
	assert.Less(t, len(out[0].Text), 300)
}

func TestResolveCount(t *testing.T) {
	n, err := resolveCount("op", 0)
	assert.NoError(t, err)
	assert.Equal(t, defaultQuestionCount, n)

	n, err = resolveCount("op", -3)
	assert.NoError(t, err)
	assert.Equal(t, defaultQuestionCount, n)

	n, err = resolveCount("op", 7)
	assert.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = resolveCount("op", maxQuestionCount)
	assert.NoError(t, err)
	assert.Equal(t, maxQuestionCount, n)

	_, err = resolveCount("op", maxQuestionCount+1)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestGenerateRejectsExcessiveCount(t *testing.T) {
	// the requested count is a contract, never silently lowered
	provider := new(mockProvider)
	svc := NewQuestionService(provider, true, testLogger())

	_, err := svc.Generate(context.Background(), "grounding", 25, "", "")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	provider.AssertNotCalled(t, "GenerateJSON", mock.Anything, mock.Anything, mock.Anything)
}
