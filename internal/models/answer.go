package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Answer is one submitted response to a question. A question may accumulate
// several rows over time (resubmission); the latest row by created_at is the
// authoritative one for displays, older rows are kept as history.
type Answer struct {
	ID          string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	QuestionID  string `gorm:"column:question_id;type:uuid;index" json:"question_id"`
	InterviewID string `gorm:"column:interview_id;type:uuid;index" json:"interview_id"`

	Text     string  `gorm:"column:text;type:text" json:"text"`
	AudioRef *string `gorm:"column:audio_ref;type:text" json:"audio_ref,omitempty"`

	DurationSeconds int64 `gorm:"column:duration_seconds" json:"duration_seconds"`

	Score        int            `gorm:"column:score" json:"score"` // always within [0,100]
	Feedback     string         `gorm:"column:feedback;type:text" json:"feedback"`
	Strengths    pq.StringArray `gorm:"column:strengths;type:text[]" json:"strengths"`
	Improvements pq.StringArray `gorm:"column:improvements;type:text[]" json:"improvements"`
	Keywords     pq.StringArray `gorm:"column:keywords;type:text[]" json:"keywords"`

	// Raw provider payload, kept for audit. Empty when evaluation degraded.
	Evaluation datatypes.JSON `gorm:"column:evaluation;type:jsonb" json:"evaluation,omitempty"`

	// Degraded marks the neutral-score fallback (empty answer, provider
	// unreachable, or AI not configured). It is an outcome, not an error.
	Degraded bool `gorm:"column:degraded" json:"degraded"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;index" json:"created_at"`
}

func (Answer) TableName() string { return "answers" }

// Evaluation is the scoring result returned to the caller on submission.
type Evaluation struct {
	Score        int      `json:"score"`
	Feedback     string   `json:"feedback"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Keywords     []string `json:"keywords"`
	Degraded     bool     `json:"degraded"`
}
