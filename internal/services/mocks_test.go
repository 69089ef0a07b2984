package services

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/devgrill/devgrill/internal/cache"
	"github.com/devgrill/devgrill/internal/models"
	"github.com/devgrill/devgrill/internal/providers/githost"
	"github.com/devgrill/devgrill/internal/providers/llm"
	mongorepo "github.com/devgrill/devgrill/internal/repositories/mongo"
	pgrepo "github.com/devgrill/devgrill/internal/repositories/postgres"
)

var (
	_ githost.Client                = (*mockHost)(nil)
	_ llm.Provider                  = (*mockProvider)(nil)
	_ pgrepo.InterviewRepository    = (*mockInterviewRepo)(nil)
	_ pgrepo.QuestionRepository     = (*mockQuestionRepo)(nil)
	_ pgrepo.AnswerRepository       = (*mockAnswerRepo)(nil)
	_ mongorepo.GroundingRepository = (*mockGroundingRepo)(nil)
	_ cache.Cache                   = (*mockCache)(nil)
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type mockHost struct{ mock.Mock }

func (m *mockHost) FetchDocument(ctx context.Context, ref githost.Reference) (string, error) {
	args := m.Called(ctx, ref)
	return args.String(0), args.Error(1)
}

func (m *mockHost) FetchMetadata(ctx context.Context, ref githost.Reference) (*githost.Metadata, error) {
	args := m.Called(ctx, ref)
	md, _ := args.Get(0).(*githost.Metadata)
	return md, args.Error(1)
}

type mockProvider struct{ mock.Mock }

func (m *mockProvider) GenerateJSON(ctx context.Context, prompt string, schema *llm.Schema) ([]byte, error) {
	args := m.Called(ctx, prompt, schema)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *mockProvider) Close() error { return nil }

type mockInterviewRepo struct{ mock.Mock }

func (m *mockInterviewRepo) CreateWithQuestions(ctx context.Context, iv *models.Interview, questions []models.Question) error {
	args := m.Called(ctx, iv, questions)
	return args.Error(0)
}

func (m *mockInterviewRepo) GetByID(ctx context.Context, id string) (*models.Interview, error) {
	args := m.Called(ctx, id)
	iv, _ := args.Get(0).(*models.Interview)
	return iv, args.Error(1)
}

func (m *mockInterviewRepo) ListByUser(ctx context.Context, userID string) ([]models.Interview, error) {
	args := m.Called(ctx, userID)
	rows, _ := args.Get(0).([]models.Interview)
	return rows, args.Error(1)
}

func (m *mockInterviewRepo) Complete(ctx context.Context, id string, completedAt time.Time, durationSeconds int64) error {
	args := m.Called(ctx, id, completedAt, durationSeconds)
	return args.Error(0)
}

type mockQuestionRepo struct{ mock.Mock }

func (m *mockQuestionRepo) GetByID(ctx context.Context, id string) (*models.Question, error) {
	args := m.Called(ctx, id)
	q, _ := args.Get(0).(*models.Question)
	return q, args.Error(1)
}

func (m *mockQuestionRepo) ListByInterview(ctx context.Context, interviewID string) ([]models.Question, error) {
	args := m.Called(ctx, interviewID)
	rows, _ := args.Get(0).([]models.Question)
	return rows, args.Error(1)
}

type mockAnswerRepo struct{ mock.Mock }

func (m *mockAnswerRepo) Insert(ctx context.Context, a *models.Answer) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *mockAnswerRepo) Update(ctx context.Context, a *models.Answer) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *mockAnswerRepo) GetByID(ctx context.Context, id string) (*models.Answer, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*models.Answer)
	return a, args.Error(1)
}

func (m *mockAnswerRepo) ListByInterview(ctx context.Context, interviewID string) ([]models.Answer, error) {
	args := m.Called(ctx, interviewID)
	rows, _ := args.Get(0).([]models.Answer)
	return rows, args.Error(1)
}

type mockGroundingRepo struct{ mock.Mock }

func (m *mockGroundingRepo) Upsert(ctx context.Context, gc *models.GroundingContext) error {
	args := m.Called(ctx, gc)
	return args.Error(0)
}

func (m *mockGroundingRepo) GetByInterviewID(ctx context.Context, interviewID string) (*models.GroundingContext, error) {
	args := m.Called(ctx, interviewID)
	gc, _ := args.Get(0).(*models.GroundingContext)
	return gc, args.Error(1)
}

type mockCache struct{ mock.Mock }

func (m *mockCache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	args := m.Called(ctx, key, dst)
	return args.Bool(0), args.Error(1)
}

func (m *mockCache) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	args := m.Called(ctx, key, val, ttl)
	return args.Error(0)
}

func (m *mockCache) Del(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}
