package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/devgrill/devgrill/internal/models"
	"github.com/devgrill/devgrill/internal/providers/llm"
	"github.com/devgrill/devgrill/internal/utils"
)

const (
	// neutralScore is assigned when scoring is skipped (empty answer) or
	// the generative service is unavailable. A policy, not an AI failure.
	neutralScore = 50

	// maxGroundingPromptChars bounds how much grounding text is embedded
	// in an evaluation prompt.
	maxGroundingPromptChars = 3000

	degradedFeedback = "Automatic evaluation was unavailable for this answer, so a neutral score was assigned."
)

type EvaluationService interface {
	// Evaluate scores a free-text answer against its question and optional
	// grounding text. It never fails: any provider problem degrades to the
	// neutral score so answer submission always succeeds. The raw provider
	// payload is returned alongside for auditing; it is nil on degraded
	// evaluations.
	Evaluate(ctx context.Context, question, answerText, groundingText, language string) (*models.Evaluation, []byte)
}

type evaluationService struct {
	provider  llm.Provider
	aiEnabled bool
	logger    *logrus.Logger
}

func NewEvaluationService(provider llm.Provider, aiEnabled bool, logger *logrus.Logger) EvaluationService {
	return &evaluationService{provider: provider, aiEnabled: aiEnabled, logger: logger}
}

func evaluationSchema() *llm.Schema {
	return &llm.Schema{
		Type: "object",
		Properties: map[string]*llm.Schema{
			"score":        {Type: "number", Description: "0-100"},
			"strengths":    {Type: "array", Items: &llm.Schema{Type: "string"}},
			"improvements": {Type: "array", Items: &llm.Schema{Type: "string"}},
			"keywords":     {Type: "array", Items: &llm.Schema{Type: "string"}},
			"feedback":     {Type: "string"},
		},
		Required: []string{"score", "strengths", "improvements", "keywords", "feedback"},
	}
}

type evaluationPayload struct {
	Score        float64  `json:"score"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Keywords     []string `json:"keywords"`
	Feedback     string   `json:"feedback"`
}

func (s *evaluationService) Evaluate(ctx context.Context, question, answerText, groundingText, language string) (*models.Evaluation, []byte) {
	// Empty answer: skipped entirely, no generative call.
	if strings.TrimSpace(answerText) == "" {
		return &models.Evaluation{Score: neutralScore, Degraded: true}, nil
	}

	if !s.aiEnabled || s.provider == nil {
		return s.degraded(nil), nil
	}

	prompt := buildEvaluationPrompt(question, answerText, groundingText, language)

	raw, err := s.provider.GenerateJSON(ctx, prompt, evaluationSchema())
	if err != nil {
		return s.degraded(err), nil
	}

	var payload evaluationPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return s.degraded(err), nil
	}

	return &models.Evaluation{
		Score:        utils.ClampScore(payload.Score),
		Feedback:     payload.Feedback,
		Strengths:    payload.Strengths,
		Improvements: payload.Improvements,
		Keywords:     payload.Keywords,
	}, raw
}

func (s *evaluationService) degraded(cause error) *models.Evaluation {
	entry := s.logger.WithField("fallback", "neutral_score")
	if cause != nil {
		entry = entry.WithError(cause)
	}
	entry.Warn("evaluation degraded")

	return &models.Evaluation{
		Score:    neutralScore,
		Feedback: degradedFeedback,
		Degraded: true,
	}
}

func buildEvaluationPrompt(question, answerText, groundingText, language string) string {
	var sb strings.Builder
	sb.WriteString("You are scoring a technical interview answer. Grade from 0 to 100, list strengths, improvements and the technical keywords the candidate used, and write short constructive feedback.\n")
	if language != "" {
		fmt.Fprintf(&sb, "Write the feedback in language: %s.\n", utils.NormalizeLanguage(language))
	}
	if groundingText != "" {
		groundingText = utils.TruncateText(groundingText, maxGroundingPromptChars)
		sb.WriteString("\nProject context the question is grounded on (credit project-specific knowledge):\n")
		sb.WriteString(groundingText)
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "\nQuestion:\n%s\n\nCandidate answer:\n%s\n", question, answerText)
	return sb.String()
}
