package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/devgrill/devgrill/internal/cache"
	"github.com/devgrill/devgrill/internal/models"
	"github.com/devgrill/devgrill/internal/providers/githost"
	mongorepo "github.com/devgrill/devgrill/internal/repositories/mongo"
	pgrepo "github.com/devgrill/devgrill/internal/repositories/postgres"
	"github.com/devgrill/devgrill/internal/utils"
)

type SubmitAnswerInput struct {
	UserID          string
	InterviewID     string
	QuestionID      string
	Text            string
	AudioRef        *string
	DurationSeconds int64
}

type InterviewService interface {
	// CreateFromRepository runs the full pipeline: parse reference,
	// retrieve grounding, generate questions, persist. All-or-nothing:
	// a failure at any stage leaves no partial interview behind.
	CreateFromRepository(ctx context.Context, userID, rawURL string, count int, difficulty, language string) (*models.Interview, []models.Question, *models.GroundingContext, error)

	// CreateManual creates an interview without a repository; questions
	// are generated from a free-form topic and there is no grounding
	// context or degraded fallback.
	CreateManual(ctx context.Context, userID, title, topic string, count int, difficulty, language string) (*models.Interview, []models.Question, error)

	Get(ctx context.Context, userID, interviewID string) (*models.Interview, []models.Question, error)

	// SubmitAnswer persists and scores an answer. Evaluation problems
	// never fail the submission; the answer is stored with a neutral
	// degraded score instead.
	SubmitAnswer(ctx context.Context, in SubmitAnswerInput) (*models.Answer, error)

	Complete(ctx context.Context, userID, interviewID string) (*models.Interview, error)
}

type interviewService struct {
	interviews pgrepo.InterviewRepository
	questions  pgrepo.QuestionRepository
	answers    pgrepo.AnswerRepository
	grounding  mongorepo.GroundingRepository

	groundingSvc GroundingService
	questionSvc  QuestionService
	evalSvc      EvaluationService

	redis  *redis.Client
	cache  cache.Cache
	logger *logrus.Logger
}

type InterviewServiceDeps struct {
	Interviews pgrepo.InterviewRepository
	Questions  pgrepo.QuestionRepository
	Answers    pgrepo.AnswerRepository
	Grounding  mongorepo.GroundingRepository

	GroundingSvc GroundingService
	QuestionSvc  QuestionService
	EvalSvc      EvaluationService

	Redis  *redis.Client
	Cache  cache.Cache
	Logger *logrus.Logger
}

func NewInterviewService(d InterviewServiceDeps) InterviewService {
	return &interviewService{
		interviews:   d.Interviews,
		questions:    d.Questions,
		answers:      d.Answers,
		grounding:    d.Grounding,
		groundingSvc: d.GroundingSvc,
		questionSvc:  d.QuestionSvc,
		evalSvc:      d.EvalSvc,
		redis:        d.Redis,
		cache:        d.Cache,
		logger:       d.Logger,
	}
}

// EventChannel is the Redis pub/sub channel answer events are published on.
func EventChannel(interviewID string) string {
	return "interview:" + interviewID + ":events"
}

func accountStatsKey(userID string) string {
	return "stats:account:" + userID
}

func (s *interviewService) CreateFromRepository(ctx context.Context, userID, rawURL string, count int, difficulty, language string) (*models.Interview, []models.Question, *models.GroundingContext, error) {
	const op = "InterviewService.CreateFromRepository"

	if userID == "" || rawURL == "" {
		return nil, nil, nil, utils.E(utils.CodeInvalidArgument, op, "user_id and repository url are required", nil)
	}

	ref, err := githost.ParseReference(rawURL)
	if err != nil {
		return nil, nil, nil, utils.E(utils.CodeInvalidArgument, op, "repository url is not a recognizable hosting url", err)
	}

	gc, err := s.groundingSvc.Retrieve(ctx, ref)
	if err != nil {
		return nil, nil, nil, err
	}

	generated, err := s.questionSvc.GenerateForInterview(ctx, gc, count, difficulty, language)
	if err != nil {
		return nil, nil, nil, err
	}

	now := time.Now().UTC()
	meta, _ := json.Marshal(map[string]string{"source": "repository", "grounding_kind": gc.Kind})

	iv := &models.Interview{
		ID:            uuid.NewString(),
		UserID:        userID,
		Title:         "Interview: " + ref.String(),
		Repository:    ref.String(),
		Status:        models.InterviewInProgress,
		Language:      utils.NormalizeLanguage(language),
		Difficulty:    utils.NormalizeDifficulty(difficulty),
		QuestionCount: len(generated),
		CreatedAt:     now,
		Metadata:      datatypes.JSON(meta),
	}

	questions := buildQuestions(iv.ID, generated, now)

	if err := s.interviews.CreateWithQuestions(ctx, iv, questions); err != nil {
		return nil, nil, nil, utils.E(utils.CodeInternal, op, "failed to persist interview", err)
	}

	// Persisted for reuse during scoring; best effort, the interview is
	// already committed.
	gc.InterviewID = iv.ID
	if err := s.grounding.Upsert(ctx, gc); err != nil {
		s.logger.WithField("interview_id", iv.ID).WithError(err).Warn("failed to persist grounding context")
	}

	s.invalidateStats(ctx, userID)
	return iv, questions, gc, nil
}

func (s *interviewService) CreateManual(ctx context.Context, userID, title, topic string, count int, difficulty, language string) (*models.Interview, []models.Question, error) {
	const op = "InterviewService.CreateManual"

	if userID == "" || topic == "" {
		return nil, nil, utils.E(utils.CodeInvalidArgument, op, "user_id and topic are required", nil)
	}

	generated, err := s.questionSvc.Generate(ctx, "Interview topic: "+topic, count, difficulty, language)
	if err != nil {
		return nil, nil, err
	}

	if title == "" {
		title = "Interview: " + topic
	}

	now := time.Now().UTC()
	meta, _ := json.Marshal(map[string]string{"source": "manual", "topic": topic})

	iv := &models.Interview{
		ID:            uuid.NewString(),
		UserID:        userID,
		Title:         title,
		Status:        models.InterviewInProgress,
		Language:      utils.NormalizeLanguage(language),
		Difficulty:    utils.NormalizeDifficulty(difficulty),
		QuestionCount: len(generated),
		CreatedAt:     now,
		Metadata:      datatypes.JSON(meta),
	}

	questions := buildQuestions(iv.ID, generated, now)

	if err := s.interviews.CreateWithQuestions(ctx, iv, questions); err != nil {
		return nil, nil, utils.E(utils.CodeInternal, op, "failed to persist interview", err)
	}

	s.invalidateStats(ctx, userID)
	return iv, questions, nil
}

func (s *interviewService) Get(ctx context.Context, userID, interviewID string) (*models.Interview, []models.Question, error) {
	const op = "InterviewService.Get"

	iv, err := s.getOwned(ctx, op, userID, interviewID)
	if err != nil {
		return nil, nil, err
	}

	questions, err := s.questions.ListByInterview(ctx, interviewID)
	if err != nil {
		return nil, nil, utils.E(utils.CodeInternal, op, "failed to list questions", err)
	}
	return iv, questions, nil
}

func (s *interviewService) SubmitAnswer(ctx context.Context, in SubmitAnswerInput) (*models.Answer, error) {
	const op = "InterviewService.SubmitAnswer"

	if in.UserID == "" || in.InterviewID == "" || in.QuestionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id, interview_id and question_id are required", nil)
	}

	iv, err := s.getOwned(ctx, op, in.UserID, in.InterviewID)
	if err != nil {
		return nil, err
	}

	q, err := s.questions.GetByID(ctx, in.QuestionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "question not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get question", err)
	}
	if q.InterviewID != in.InterviewID {
		return nil, utils.E(utils.CodeInvalidArgument, op, "question does not belong to interview", nil)
	}

	// Scoring stays grounded on the stored context even if the remote
	// repository has since disappeared. Absence degrades gracefully.
	groundingText := ""
	if gc, gerr := s.grounding.GetByInterviewID(ctx, in.InterviewID); gerr == nil {
		groundingText = gc.Text
	}

	eval, raw := s.evalSvc.Evaluate(ctx, q.Text, in.Text, groundingText, iv.Language)

	answer := &models.Answer{
		ID:              uuid.NewString(),
		QuestionID:      in.QuestionID,
		InterviewID:     in.InterviewID,
		Text:            in.Text,
		AudioRef:        in.AudioRef,
		DurationSeconds: in.DurationSeconds,
		Score:           eval.Score,
		Feedback:        eval.Feedback,
		Strengths:       eval.Strengths,
		Improvements:    eval.Improvements,
		Keywords:        eval.Keywords,
		Degraded:        eval.Degraded,
		CreatedAt:       time.Now().UTC(),
	}
	if raw != nil {
		answer.Evaluation = datatypes.JSON(raw)
	}

	if err := s.answers.Insert(ctx, answer); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist answer", err)
	}

	s.publishAnswerEvent(ctx, answer)
	s.invalidateStats(ctx, in.UserID)
	return answer, nil
}

func (s *interviewService) Complete(ctx context.Context, userID, interviewID string) (*models.Interview, error) {
	const op = "InterviewService.Complete"

	iv, err := s.getOwned(ctx, op, userID, interviewID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	dur := int64(now.Sub(iv.CreatedAt).Seconds())
	if dur < 0 {
		dur = 0
	}

	if err := s.interviews.Complete(ctx, interviewID, now, dur); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to complete interview", err)
	}

	iv.Status = models.InterviewCompleted
	iv.CompletedAt = &now
	iv.DurationSeconds = dur

	s.invalidateStats(ctx, userID)
	return iv, nil
}

func (s *interviewService) getOwned(ctx context.Context, op, userID, interviewID string) (*models.Interview, error) {
	iv, err := s.interviews.GetByID(ctx, interviewID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "interview not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get interview", err)
	}
	if iv.UserID != userID {
		return nil, utils.E(utils.CodeForbidden, op, "forbidden", nil)
	}
	return iv, nil
}

func buildQuestions(interviewID string, generated []models.GeneratedQuestion, now time.Time) []models.Question {
	questions := make([]models.Question, 0, len(generated))
	for i, g := range generated {
		questions = append(questions, models.Question{
			ID:          uuid.NewString(),
			InterviewID: interviewID,
			Order:       i + 1,
			Text:        g.Text,
			Difficulty:  g.Difficulty,
			CreatedAt:   now,
		})
	}
	return questions
}

func (s *interviewService) publishAnswerEvent(ctx context.Context, a *models.Answer) {
	if s.redis == nil {
		return
	}
	payload, _ := json.Marshal(map[string]any{
		"type":        "answer_evaluated",
		"answer_id":   a.ID,
		"question_id": a.QuestionID,
		"score":       a.Score,
		"degraded":    a.Degraded,
	})
	if err := s.redis.Publish(ctx, EventChannel(a.InterviewID), string(payload)).Err(); err != nil {
		s.logger.WithError(err).Debug("failed to publish answer event")
	}
}

func (s *interviewService) invalidateStats(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, accountStatsKey(userID)); err != nil {
		s.logger.WithError(err).Debug("failed to invalidate stats cache")
	}
}
