package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/devgrill/devgrill/internal/models"
	"github.com/devgrill/devgrill/internal/utils"
)

type AnswerRepository interface {
	Insert(ctx context.Context, a *models.Answer) error
	Update(ctx context.Context, a *models.Answer) error
	GetByID(ctx context.Context, id string) (*models.Answer, error)
	// ListByInterview returns every recorded answer for the interview,
	// oldest first, so aggregation can pick the latest row per question.
	ListByInterview(ctx context.Context, interviewID string) ([]models.Answer, error)
}

type answerRepo struct {
	db *gorm.DB
}

func NewAnswerRepo(db *gorm.DB) AnswerRepository {
	return &answerRepo{db: db}
}

func (r *answerRepo) Insert(ctx context.Context, a *models.Answer) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *answerRepo) Update(ctx context.Context, a *models.Answer) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *answerRepo) GetByID(ctx context.Context, id string) (*models.Answer, error) {
	var a models.Answer
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &a, err
}

func (r *answerRepo) ListByInterview(ctx context.Context, interviewID string) ([]models.Answer, error) {
	var rows []models.Answer
	err := r.db.WithContext(ctx).
		Where("interview_id = ?", interviewID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
