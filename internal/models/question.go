package models

import "time"

type Question struct {
	ID          string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	InterviewID string `gorm:"column:interview_id;type:uuid;index" json:"interview_id"`

	Order      int    `gorm:"column:question_order" json:"order"` // 1-based presentation order
	Text       string `gorm:"column:text;type:text" json:"text"`
	Difficulty string `gorm:"column:difficulty;type:text" json:"difficulty"` // easy|medium|hard

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (Question) TableName() string { return "questions" }

// GeneratedQuestion is a question as produced by the generation pipeline,
// before it is persisted with an order and interview id.
type GeneratedQuestion struct {
	Text       string `json:"question"`
	Difficulty string `json:"difficulty"`
}
