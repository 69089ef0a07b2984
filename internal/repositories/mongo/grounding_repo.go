package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devgrill/devgrill/internal/models"
	"github.com/devgrill/devgrill/internal/utils"
)

type GroundingRepository interface {
	Upsert(ctx context.Context, gc *models.GroundingContext) error
	GetByInterviewID(ctx context.Context, interviewID string) (*models.GroundingContext, error)
}

type groundingRepo struct {
	col *mongo.Collection
}

func NewGroundingRepo(db *mongo.Database) GroundingRepository {
	return &groundingRepo{col: db.Collection("grounding_contexts")}
}

func (r *groundingRepo) Upsert(ctx context.Context, gc *models.GroundingContext) error {
	if gc.FetchedAt.IsZero() {
		gc.FetchedAt = time.Now().UTC()
	}
	_, err := r.col.UpdateOne(ctx,
		bson.M{"interview_id": gc.InterviewID},
		bson.M{"$set": bson.M{
			"kind":             gc.Kind,
			"text":             gc.Text,
			"name":             gc.Name,
			"description":      gc.Description,
			"primary_language": gc.PrimaryLanguage,
			"topics":           gc.Topics,
			"stars":            gc.Stars,
			"forks":            gc.Forks,
			"homepage":         gc.Homepage,
			"fetched_at":       gc.FetchedAt,
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *groundingRepo) GetByInterviewID(ctx context.Context, interviewID string) (*models.GroundingContext, error) {
	var gc models.GroundingContext
	err := r.col.FindOne(ctx, bson.M{"interview_id": interviewID}).Decode(&gc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &gc, err
}
