package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/model"
)

// ProgressRepository defines the interface for persisted round progression.
type ProgressRepository interface {
	GetProgress(ctx context.Context, email string) (*model.Progress, error)
	SaveProgress(ctx context.Context, progress *model.Progress) (*model.Progress, error)
}

const progressCollection = "progress"

type progressMongoRepository struct {
	db *mongo.Database
}

func NewProgressMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) ProgressRepository {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := db.Collection(progressCollection).Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create progress indexes")
	}

	return &progressMongoRepository{db: db}
}

func (r *progressMongoRepository) GetProgress(ctx context.Context, email string) (*model.Progress, error) {
	var progress model.Progress
	if err := r.db.Collection(progressCollection).FindOne(ctx, bson.M{"email": email}).Decode(&progress); err != nil {
		return nil, err
	}

	return &progress, nil
}

// SaveProgress upserts the progression of progress.Email.
func (r *progressMongoRepository) SaveProgress(ctx context.Context, progress *model.Progress) (*model.Progress, error) {
	now := time.Now()
	progress.UpdatedAt = now

	result := r.db.Collection(progressCollection).FindOneAndUpdate(
		ctx,
		bson.M{"email": progress.Email},
		bson.M{
			"$set": bson.M{
				"year":              progress.Year,
				"round":             progress.Round,
				"fragments":         progress.Fragments,
				"completed_puzzles": progress.CompletedPuzzles,
				"completed_at":      progress.CompletedAt,
				"updated_at":        now,
			},
			"$setOnInsert": bson.M{"email": progress.Email, "created_at": now},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var saved model.Progress
	if err := result.Decode(&saved); err != nil {
		return nil, err
	}

	return &saved, nil
}
