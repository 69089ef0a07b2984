package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Grounding context kinds.
const (
	GroundingDocument = "document"
	GroundingMetadata = "metadata"
)

// GroundingContext is the descriptive text about a repository that question
// generation and answer scoring are grounded on. Exactly one is produced per
// retrieval: either the repository's long-form document (truncated to the
// prompt cap) or a paragraph synthesized from structured metadata. It is
// persisted next to the interview so scoring stays grounded even if the
// remote source later disappears.
type GroundingContext struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InterviewID string             `bson:"interview_id" json:"interview_id"`

	Kind string `bson:"kind" json:"kind"` // document|metadata
	Text string `bson:"text" json:"text"` // always <= MaxGroundingChars

	// Structured fields, set only for the metadata kind.
	Name            string   `bson:"name,omitempty" json:"name,omitempty"`
	Description     string   `bson:"description,omitempty" json:"description,omitempty"`
	PrimaryLanguage string   `bson:"primary_language,omitempty" json:"primary_language,omitempty"`
	Topics          []string `bson:"topics,omitempty" json:"topics,omitempty"`
	Stars           int      `bson:"stars,omitempty" json:"stars,omitempty"`
	Forks           int      `bson:"forks,omitempty" json:"forks,omitempty"`
	Homepage        string   `bson:"homepage,omitempty" json:"homepage,omitempty"`

	FetchedAt time.Time `bson:"fetched_at" json:"fetched_at"`
}

// MaxGroundingChars bounds downstream prompt size. Part of the retrieval
// contract, not an implementation detail.
const MaxGroundingChars = 8000
