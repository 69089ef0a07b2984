package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureMongoIndexes() error {
	if MongoClient == nil {
		return errors.New("MongoClient is nil; call InitMongo() first")
	}

	db := MongoDatabase()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// grounding_contexts indexes
	grounding := db.Collection("grounding_contexts")
	_, err := grounding.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// One grounding context per interview
		{
			Keys: bson.D{{Key: "interview_id", Value: 1}},
			Options: options.Index().
				SetName("uniq_interview_id").
				SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "fetched_at", Value: -1}},
			Options: options.Index().SetName("by_fetched_at"),
		},
	})
	return err
}
