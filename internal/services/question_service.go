package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/devgrill/devgrill/internal/models"
	"github.com/devgrill/devgrill/internal/providers/llm"
	"github.com/devgrill/devgrill/internal/utils"
)

const (
	defaultQuestionCount = 5
	maxQuestionCount     = 20
)

// errProviderUnavailable marks Generate failures caused by the provider
// being unconfigured or unreachable. Only these are eligible for the
// paragraph fallback; a reachable provider returning unusable output is not.
var errProviderUnavailable = errors.New("generative provider unavailable")

type QuestionService interface {
	// Generate asks the generative provider for exactly count questions
	// grounded on the given text. count 0 means the default; anything
	// outside [1, maxQuestionCount] is rejected, never silently adjusted.
	// Difficulty and language are prompt hints, not enforced constraints.
	// Zero or malformed results are an error, never silently accepted.
	Generate(ctx context.Context, groundingText string, count int, difficulty, language string) ([]models.GeneratedQuestion, error)

	// GenerateForInterview is the interview-creation path: it tries
	// Generate first and, when the provider is unavailable and the
	// grounding is a long-form document, derives naive template questions
	// from the document's paragraphs instead of failing the creation.
	// Failures of a reachable provider (zero or malformed output) stay
	// fatal.
	GenerateForInterview(ctx context.Context, gc *models.GroundingContext, count int, difficulty, language string) ([]models.GeneratedQuestion, error)
}

type questionService struct {
	provider  llm.Provider
	aiEnabled bool
	logger    *logrus.Logger
}

// NewQuestionService builds the service. aiEnabled is decided once at
// startup (credentials present) and passed in, so tests can exercise both
// paths deterministically.
func NewQuestionService(provider llm.Provider, aiEnabled bool, logger *logrus.Logger) QuestionService {
	return &questionService{provider: provider, aiEnabled: aiEnabled, logger: logger}
}

func questionListSchema() *llm.Schema {
	return &llm.Schema{
		Type: "array",
		Items: &llm.Schema{
			Type: "object",
			Properties: map[string]*llm.Schema{
				"question":   {Type: "string"},
				"difficulty": {Type: "string", Description: "easy, medium or hard"},
			},
			Required: []string{"question", "difficulty"},
		},
	}
}

func (s *questionService) Generate(ctx context.Context, groundingText string, count int, difficulty, language string) ([]models.GeneratedQuestion, error) {
	const op = "QuestionService.Generate"

	count, err := resolveCount(op, count)
	if err != nil {
		return nil, err
	}

	if !s.aiEnabled || s.provider == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "generative service is not configured",
			fmt.Errorf("%w: %w", utils.ErrQuestionGeneration, errProviderUnavailable))
	}

	prompt := buildQuestionPrompt(groundingText, count, difficulty, language)

	raw, err := s.provider.GenerateJSON(ctx, prompt, questionListSchema())
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "generative service call failed",
			fmt.Errorf("%w: %w: %w", utils.ErrQuestionGeneration, errProviderUnavailable, err))
	}

	var items []models.GeneratedQuestion
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "generative service returned a malformed payload", fmt.Errorf("%w: %w", utils.ErrQuestionGeneration, err))
	}

	out := make([]models.GeneratedQuestion, 0, count)
	for _, it := range items {
		text := strings.TrimSpace(it.Text)
		if text == "" {
			continue
		}
		out = append(out, models.GeneratedQuestion{
			Text:       text,
			Difficulty: utils.NormalizeDifficulty(it.Difficulty),
		})
	}

	if len(out) == 0 {
		return nil, utils.E(utils.CodeUnavailable, op, "generative service returned zero questions", utils.ErrQuestionGeneration)
	}
	if len(out) > count {
		out = out[:count]
	}
	return out, nil
}

func (s *questionService) GenerateForInterview(ctx context.Context, gc *models.GroundingContext, count int, difficulty, language string) ([]models.GeneratedQuestion, error) {
	const op = "QuestionService.GenerateForInterview"

	count, cerr := resolveCount(op, count)
	if cerr != nil {
		return nil, cerr
	}

	questions, err := s.Generate(ctx, gc.Text, count, difficulty, language)
	if err == nil {
		return questions, nil
	}

	// Degrading is reserved for an unreachable or unconfigured provider; a
	// provider that answered with garbage stays a hard failure. The
	// paragraph fallback also only makes sense over a long-form document,
	// since a metadata paragraph has nothing to split.
	if !errors.Is(err, errProviderUnavailable) || gc.Kind != models.GroundingDocument {
		return nil, err
	}

	fallback := paragraphQuestions(gc.Text, count)
	if len(fallback) == 0 {
		return nil, err
	}

	s.logger.WithError(err).Warn("question generation degraded to paragraph fallback")
	return fallback, nil
}

func buildQuestionPrompt(groundingText string, count int, difficulty, language string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a senior technical interviewer. Based on the project context below, write %d interview questions that probe the candidate's understanding of this specific project.\n", count)
	if difficulty != "" {
		fmt.Fprintf(&sb, "Target difficulty: %s.\n", utils.NormalizeDifficulty(difficulty))
	}
	if language != "" {
		fmt.Fprintf(&sb, "Write the questions in language: %s.\n", utils.NormalizeLanguage(language))
	}
	sb.WriteString("\nProject context:\n")
	sb.WriteString(groundingText)
	return sb.String()
}

// paragraphQuestions derives count template questions by splitting the
// document into paragraphs, cycling when there are fewer paragraphs than
// requested. Explicitly lower quality; always tagged medium.
func paragraphQuestions(text string, count int) []models.GeneratedQuestion {
	var paragraphs []string
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		paragraphs = append(paragraphs, utils.TruncateText(block, 200))
	}
	if len(paragraphs) == 0 {
		return nil
	}

	out := make([]models.GeneratedQuestion, 0, count)
	for i := 0; i < count; i++ {
		p := paragraphs[i%len(paragraphs)]
		out = append(out, models.GeneratedQuestion{
			Text:       fmt.Sprintf("The project documentation states: %q. Explain what this means and how you would approach it as a contributor.", p),
			Difficulty: utils.DifficultyMedium,
		})
	}
	return out
}

// resolveCount applies the count contract: 0 (omitted) means the default,
// anything above the ceiling is the caller's error. The requested count is
// never silently changed.
func resolveCount(op string, count int) (int, error) {
	if count <= 0 {
		return defaultQuestionCount, nil
	}
	if count > maxQuestionCount {
		return 0, utils.E(utils.CodeInvalidArgument, op,
			fmt.Sprintf("question_count must be at most %d", maxQuestionCount), nil)
	}
	return count, nil
}
