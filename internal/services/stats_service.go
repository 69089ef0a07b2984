package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"

	"github.com/devgrill/devgrill/internal/cache"
	"github.com/devgrill/devgrill/internal/models"
	pgrepo "github.com/devgrill/devgrill/internal/repositories/postgres"
	"github.com/devgrill/devgrill/internal/utils"
)

const accountStatsTTL = 5 * time.Minute

// monthKeyFormat buckets interviews by calendar month, e.g. "Jan 2026".
const monthKeyFormat = "Jan 2006"

type StatsService interface {
	// InterviewStatistics re-derives interview rollups from the full
	// answer set. Pure read-and-compute; absence of data yields zeroed
	// fields, never an error.
	InterviewStatistics(ctx context.Context, userID, interviewID string) (*models.InterviewStatistics, error)

	// AccountStatistics aggregates across every interview the account
	// owns. A Redis-cached copy is a pure optimization; the answer set
	// stays the source of truth.
	AccountStatistics(ctx context.Context, userID string) (*models.AccountStatistics, error)
}

type statsService struct {
	interviews pgrepo.InterviewRepository
	questions  pgrepo.QuestionRepository
	answers    pgrepo.AnswerRepository
	cache      cache.Cache
	logger     *logrus.Logger
}

func NewStatsService(interviews pgrepo.InterviewRepository, questions pgrepo.QuestionRepository, answers pgrepo.AnswerRepository, c cache.Cache, logger *logrus.Logger) StatsService {
	return &statsService{interviews: interviews, questions: questions, answers: answers, cache: c, logger: logger}
}

func (s *statsService) InterviewStatistics(ctx context.Context, userID, interviewID string) (*models.InterviewStatistics, error) {
	const op = "StatsService.InterviewStatistics"

	if interviewID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "interview_id is required", nil)
	}

	iv, err := s.interviews.GetByID(ctx, interviewID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "interview not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get interview", err)
	}
	if userID != "" && iv.UserID != userID {
		return nil, utils.E(utils.CodeForbidden, op, "forbidden", nil)
	}

	questions, err := s.questions.ListByInterview(ctx, interviewID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list questions", err)
	}
	answers, err := s.answers.ListByInterview(ctx, interviewID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list answers", err)
	}

	return deriveInterviewStatistics(iv, questions, answers), nil
}

// deriveInterviewStatistics computes the rollup from the raw rows. Split
// out so tests can feed it data directly.
func deriveInterviewStatistics(iv *models.Interview, questions []models.Question, answers []models.Answer) *models.InterviewStatistics {
	out := &models.InterviewStatistics{
		InterviewID:    iv.ID,
		TotalQuestions: len(questions),
		ByDifficulty:   make(map[string]models.DifficultyStats),
	}

	// Rows arrive oldest-first, so the last row per question is the most
	// recent (authoritative) one. All rows still count toward response
	// time; resubmissions are retained as history.
	latest := make(map[string]models.Answer)
	scoresPerQuestion := make(map[string][]float64)
	var durations []float64
	for _, a := range answers {
		latest[a.QuestionID] = a
		scoresPerQuestion[a.QuestionID] = append(scoresPerQuestion[a.QuestionID], float64(a.Score))
		durations = append(durations, float64(a.DurationSeconds))
	}

	var latestScores []float64
	for _, a := range latest {
		if strings.TrimSpace(a.Text) != "" {
			out.AnsweredQuestions++
		}
		latestScores = append(latestScores, float64(a.Score))
	}
	out.SkippedQuestions = out.TotalQuestions - out.AnsweredQuestions

	out.AverageResponseTimeSeconds = meanOrZero(durations)
	out.Confidence = utils.RoundPercent(meanOrZero(latestScores))

	// Per-difficulty scores use the average of each question's response
	// averages, not a flat mean over every response.
	perDifficultyAverages := make(map[string][]float64)
	for _, q := range questions {
		d := utils.NormalizeDifficulty(q.Difficulty)
		ds := out.ByDifficulty[d]
		ds.Questions++
		out.ByDifficulty[d] = ds

		if scores, ok := scoresPerQuestion[q.ID]; ok {
			perDifficultyAverages[d] = append(perDifficultyAverages[d], meanOrZero(scores))
		}
	}
	for d, avgs := range perDifficultyAverages {
		ds := out.ByDifficulty[d]
		ds.AverageScore = utils.RoundPercent(meanOrZero(avgs))
		out.ByDifficulty[d] = ds
	}

	return out
}

func (s *statsService) AccountStatistics(ctx context.Context, userID string) (*models.AccountStatistics, error) {
	const op = "StatsService.AccountStatistics"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	if s.cache != nil {
		var cached models.AccountStatistics
		if hit, err := s.cache.GetJSON(ctx, accountStatsKey(userID), &cached); err == nil && hit {
			return &cached, nil
		}
	}

	interviews, err := s.interviews.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list interviews", err)
	}

	out := &models.AccountStatistics{
		UserID:       userID,
		ByMonth:      make(map[string]int),
		ByRepository: make(map[string]int),
	}

	var completedScores []float64
	for _, iv := range interviews {
		out.TotalInterviews++
		out.TotalDurationSeconds += iv.DurationSeconds

		out.ByMonth[iv.CreatedAt.Format(monthKeyFormat)]++

		repoKey := iv.Repository
		if repoKey == "" {
			repoKey = models.NoRepository
		}
		out.ByRepository[repoKey]++

		if iv.Status != models.InterviewCompleted {
			continue
		}
		out.CompletedInterviews++

		ivStats, serr := s.InterviewStatistics(ctx, userID, iv.ID)
		if serr != nil {
			s.logger.WithField("interview_id", iv.ID).WithError(serr).Warn("skipping interview in account average")
			continue
		}
		completedScores = append(completedScores, float64(ivStats.Confidence))
	}

	// Interviews never completed do not lower the average.
	out.AverageScore = utils.RoundPercent(meanOrZero(completedScores))

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, accountStatsKey(userID), out, accountStatsTTL); err != nil {
			s.logger.WithError(err).Debug("failed to cache account statistics")
		}
	}
	return out, nil
}

func meanOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return m
}
