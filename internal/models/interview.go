package models

import (
	"time"

	"gorm.io/datatypes"
)

// Interview statuses.
const (
	InterviewInProgress = "in_progress"
	InterviewCompleted  = "completed"
)

type Interview struct {
	ID     string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"column:user_id;type:uuid;index" json:"user_id"`

	Title      string `gorm:"column:title;type:text" json:"title"`
	Repository string `gorm:"column:repository;type:text;index" json:"repository"` // "owner/project", empty for manual interviews
	Status     string `gorm:"column:status;type:text" json:"status"`               // in_progress|completed
	Language   string `gorm:"column:language;type:text" json:"language"`
	Difficulty string `gorm:"column:difficulty;type:text" json:"difficulty"`

	QuestionCount int `gorm:"column:question_count" json:"question_count"`

	CreatedAt       time.Time  `gorm:"column:created_at;type:timestamptz;index" json:"created_at"`
	CompletedAt     *time.Time `gorm:"column:completed_at;type:timestamptz" json:"completed_at,omitempty"`
	DurationSeconds int64      `gorm:"column:duration_seconds" json:"duration_seconds"`

	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
}

func (Interview) TableName() string { return "interviews" }
