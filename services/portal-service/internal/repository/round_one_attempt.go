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

// RoundOneAttemptRepository records correct round one answers per player.
type RoundOneAttemptRepository interface {
	// RecordAttempt stores a correct answer. It reports false when the
	// player had already answered the question.
	RecordAttempt(ctx context.Context, attempt *model.RoundOneAttempt) (bool, error)
	ListAttempts(ctx context.Context, email string) ([]*model.RoundOneAttempt, error)
	CountAttempts(ctx context.Context, email string) (int64, error)
}

const roundOneAttemptCollection = "round_one_attempts"

type roundOneAttemptMongoRepository struct {
	db *mongo.Database
}

func NewRoundOneAttemptMongoRepository(
	ctx context.Context,
	logger *zerolog.Logger,
	db *mongo.Database,
) RoundOneAttemptRepository {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}, {Key: "question_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := db.Collection(roundOneAttemptCollection).Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create round one attempt indexes")
	}

	return &roundOneAttemptMongoRepository{db: db}
}

func (r *roundOneAttemptMongoRepository) RecordAttempt(ctx context.Context, attempt *model.RoundOneAttempt) (bool, error) {
	attempt.AnsweredAt = time.Now()

	_, err := r.db.Collection(roundOneAttemptCollection).InsertOne(ctx, attempt)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (r *roundOneAttemptMongoRepository) ListAttempts(ctx context.Context, email string) ([]*model.RoundOneAttempt, error) {
	cursor, err := r.db.Collection(roundOneAttemptCollection).Find(
		ctx,
		bson.M{"email": email},
		options.Find().SetSort(bson.D{{Key: "answered_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var attempts []*model.RoundOneAttempt
	if err := cursor.All(ctx, &attempts); err != nil {
		return nil, err
	}

	return attempts, nil
}

func (r *roundOneAttemptMongoRepository) CountAttempts(ctx context.Context, email string) (int64, error) {
	return r.db.Collection(roundOneAttemptCollection).CountDocuments(ctx, bson.M{"email": email})
}
