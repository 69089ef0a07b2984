package models

// InterviewStatistics is derived from the current answer set on every read,
// never persisted as source of truth.
//
// Invariant: AnsweredQuestions + SkippedQuestions == TotalQuestions.
// Confidence and AverageResponseTimeSeconds are 0 (never NaN) when no
// answers exist.
type InterviewStatistics struct {
	InterviewID string `json:"interview_id"`

	TotalQuestions    int `json:"total_questions"`
	AnsweredQuestions int `json:"answered_questions"`
	SkippedQuestions  int `json:"skipped_questions"`

	AverageResponseTimeSeconds float64 `json:"average_response_time_seconds"`

	// Confidence is the rounded mean of the most recent score per answered
	// question.
	Confidence int `json:"confidence"`

	// ByDifficulty maps easy|medium|hard to the average score of questions
	// carrying that tag.
	ByDifficulty map[string]DifficultyStats `json:"by_difficulty"`
}

type DifficultyStats struct {
	Questions    int `json:"questions"`
	AverageScore int `json:"average_score"`
}

// AccountStatistics aggregates across every interview owned by an account.
type AccountStatistics struct {
	UserID string `json:"user_id"`

	TotalInterviews     int `json:"total_interviews"`
	CompletedInterviews int `json:"completed_interviews"`

	// AverageScore is computed over completed interviews only.
	AverageScore int `json:"average_score"`

	// TotalDurationSeconds sums every interview regardless of completion.
	TotalDurationSeconds int64 `json:"total_duration_seconds"`

	// ByMonth counts interviews by creation month, keyed "Jan 2006".
	ByMonth map[string]int `json:"by_month"`

	// ByRepository counts interviews per repository; interviews created
	// without one land in the NoRepository bucket.
	ByRepository map[string]int `json:"by_repository"`
}

// NoRepository is the bucket key for interviews without a repository.
const NoRepository = "no repository"
