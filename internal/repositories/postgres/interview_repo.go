package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/devgrill/devgrill/internal/models"
	"github.com/devgrill/devgrill/internal/utils"
)

type InterviewRepository interface {
	// CreateWithQuestions persists an interview and its questions in one
	// transaction so a failed creation leaves nothing behind.
	CreateWithQuestions(ctx context.Context, iv *models.Interview, questions []models.Question) error
	GetByID(ctx context.Context, id string) (*models.Interview, error)
	ListByUser(ctx context.Context, userID string) ([]models.Interview, error)
	Complete(ctx context.Context, id string, completedAt time.Time, durationSeconds int64) error
}

type interviewRepo struct {
	db *gorm.DB
}

func NewInterviewRepo(db *gorm.DB) InterviewRepository {
	return &interviewRepo{db: db}
}

func (r *interviewRepo) CreateWithQuestions(ctx context.Context, iv *models.Interview, questions []models.Question) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(iv).Error; err != nil {
			return err
		}
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *interviewRepo) GetByID(ctx context.Context, id string) (*models.Interview, error) {
	var iv models.Interview
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&iv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &iv, err
}

func (r *interviewRepo) ListByUser(ctx context.Context, userID string) ([]models.Interview, error) {
	var rows []models.Interview
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *interviewRepo) Complete(ctx context.Context, id string, completedAt time.Time, durationSeconds int64) error {
	res := r.db.WithContext(ctx).
		Model(&models.Interview{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":           models.InterviewCompleted,
			"completed_at":     completedAt.UTC(),
			"duration_seconds": durationSeconds,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
