package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/devgrill/devgrill/internal/models"
	"github.com/devgrill/devgrill/internal/utils"
)

func TestDeriveInterviewStatisticsNoAnswers(t *testing.T) {
	iv := &models.Interview{ID: "iv1"}
	questions := []models.Question{
		{ID: "q1", Difficulty: "easy"},
		{ID: "q2", Difficulty: "medium"},
		{ID: "q3", Difficulty: "hard"},
	}

	out := deriveInterviewStatistics(iv, questions, nil)

	assert.Equal(t, 3, out.TotalQuestions)
	assert.Equal(t, 0, out.AnsweredQuestions)
	assert.Equal(t, 3, out.SkippedQuestions)
	assert.Equal(t, 0.0, out.AverageResponseTimeSeconds)
	assert.Equal(t, 0, out.Confidence)
	assert.Equal(t, 1, out.ByDifficulty["easy"].Questions)
	assert.Equal(t, 0, out.ByDifficulty["easy"].AverageScore)
}

func TestDeriveInterviewStatisticsLatestAnswerWins(t *testing.T) {
	iv := &models.Interview{ID: "iv1"}
	questions := []models.Question{{ID: "q1", Difficulty: "medium"}}

	// oldest-first: the resubmission at score 90 supersedes the 40
	answers := []models.Answer{
		{QuestionID: "q1", Text: "first try", Score: 40, DurationSeconds: 30},
		{QuestionID: "q1", Text: "better answer", Score: 90, DurationSeconds: 20},
	}

	out := deriveInterviewStatistics(iv, questions, answers)

	assert.Equal(t, 1, out.AnsweredQuestions)
	assert.Equal(t, 0, out.SkippedQuestions)
	// confidence uses the latest score only
	assert.Equal(t, 90, out.Confidence)
	// response time still averages every submission
	assert.Equal(t, 25.0, out.AverageResponseTimeSeconds)
	// per-question average keeps all submissions: (40+90)/2 = 65
	assert.Equal(t, 65, out.ByDifficulty["medium"].AverageScore)
}

func TestDeriveInterviewStatisticsEmptyLatestTextIsSkipped(t *testing.T) {
	iv := &models.Interview{ID: "iv1"}
	questions := []models.Question{{ID: "q1", Difficulty: "easy"}}
	answers := []models.Answer{{QuestionID: "q1", Text: "  ", Score: 50}}

	out := deriveInterviewStatistics(iv, questions, answers)

	assert.Equal(t, 0, out.AnsweredQuestions)
	assert.Equal(t, 1, out.SkippedQuestions)
}

func TestDeriveInterviewStatisticsTwoLevelAveraging(t *testing.T) {
	iv := &models.Interview{ID: "iv1"}
	questions := []models.Question{
		{ID: "q1", Difficulty: "hard"},
		{ID: "q2", Difficulty: "hard"},
	}
	// q1: three submissions averaging 60; q2: one submission at 100.
	// A flat mean over all four rows would be 70; the per-question
	// average of averages is (60+100)/2 = 80.
	answers := []models.Answer{
		{QuestionID: "q1", Text: "a", Score: 40},
		{QuestionID: "q1", Text: "b", Score: 60},
		{QuestionID: "q1", Text: "c", Score: 80},
		{QuestionID: "q2", Text: "d", Score: 100},
	}

	out := deriveInterviewStatistics(iv, questions, answers)

	assert.Equal(t, 80, out.ByDifficulty["hard"].AverageScore)
	assert.Equal(t, 2, out.ByDifficulty["hard"].Questions)
}

func TestInterviewStatisticsOwnership(t *testing.T) {
	interviews := new(mockInterviewRepo)
	interviews.On("GetByID", mock.Anything, "iv1").Return(&models.Interview{ID: "iv1", UserID: "owner"}, nil)

	svc := NewStatsService(interviews, new(mockQuestionRepo), new(mockAnswerRepo), nil, testLogger())

	_, err := svc.InterviewStatistics(context.Background(), "intruder", "iv1")
	assert.True(t, utils.IsCode(err, utils.CodeForbidden))
}

func TestAccountStatistics(t *testing.T) {
	userID := "user1"
	created := time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC)

	interviews := new(mockInterviewRepo)
	questions := new(mockQuestionRepo)
	answers := new(mockAnswerRepo)

	completed := models.Interview{
		ID:              "iv1",
		UserID:          userID,
		Repository:      "acme/widget",
		Status:          models.InterviewCompleted,
		CreatedAt:       created,
		DurationSeconds: 600,
	}
	inProgress := models.Interview{
		ID:        "iv2",
		UserID:    userID,
		Status:    models.InterviewInProgress,
		CreatedAt: created.AddDate(0, 1, 0),
	}

	interviews.On("ListByUser", mock.Anything, userID).Return([]models.Interview{completed, inProgress}, nil)
	interviews.On("GetByID", mock.Anything, "iv1").Return(&completed, nil)
	questions.On("ListByInterview", mock.Anything, "iv1").Return([]models.Question{{ID: "q1", Difficulty: "medium"}}, nil)
	answers.On("ListByInterview", mock.Anything, "iv1").Return([]models.Answer{{QuestionID: "q1", Text: "a", Score: 80}}, nil)

	svc := NewStatsService(interviews, questions, answers, nil, testLogger())

	out, err := svc.AccountStatistics(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 2, out.TotalInterviews)
	assert.Equal(t, 1, out.CompletedInterviews)
	// the in-progress interview does not drag the average down
	assert.Equal(t, 80, out.AverageScore)
	assert.Equal(t, int64(600), out.TotalDurationSeconds)
	assert.Equal(t, 1, out.ByMonth["Jan 2026"])
	assert.Equal(t, 1, out.ByMonth["Feb 2026"])
	assert.Equal(t, 1, out.ByRepository["acme/widget"])
	assert.Equal(t, 1, out.ByRepository[models.NoRepository])
}

func TestAccountStatisticsCacheHit(t *testing.T) {
	userID := "user1"

	c := new(mockCache)
	c.On("GetJSON", mock.Anything, accountStatsKey(userID), mock.Anything).
		Run(func(args mock.Arguments) {
			dst := args.Get(2).(*models.AccountStatistics)
			dst.UserID = userID
			dst.TotalInterviews = 9
		}).
		Return(true, nil)

	interviews := new(mockInterviewRepo)
	svc := NewStatsService(interviews, new(mockQuestionRepo), new(mockAnswerRepo), c, testLogger())

	out, err := svc.AccountStatistics(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 9, out.TotalInterviews)

	interviews.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything)
}

func TestAccountStatisticsCacheMissPopulates(t *testing.T) {
	userID := "user1"

	c := new(mockCache)
	c.On("GetJSON", mock.Anything, accountStatsKey(userID), mock.Anything).Return(false, nil)
	c.On("SetJSON", mock.Anything, accountStatsKey(userID), mock.Anything, accountStatsTTL).Return(nil)

	interviews := new(mockInterviewRepo)
	interviews.On("ListByUser", mock.Anything, userID).Return([]models.Interview{}, nil)

	svc := NewStatsService(interviews, new(mockQuestionRepo), new(mockAnswerRepo), c, testLogger())

	out, err := svc.AccountStatistics(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 0, out.TotalInterviews)
	assert.Equal(t, 0, out.AverageScore)

	c.AssertExpectations(t)
}
