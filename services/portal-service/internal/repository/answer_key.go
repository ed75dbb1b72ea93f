package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/model"
)

// AnswerKeyRepository defines the interface for round three answer keys.
type AnswerKeyRepository interface {
	CreateAnswerKey(ctx context.Context, key *model.AnswerKey) (*model.AnswerKey, error)
	ListAnswerKeys(ctx context.Context) ([]*model.AnswerKey, error)
	GetAnswerKeyByYear(ctx context.Context, year int) (*model.AnswerKey, error)
	UpdateAnswerKeyByYear(ctx context.Context, year int, answers []string) (*model.AnswerKey, error)
	DeleteAnswerKeyByYear(ctx context.Context, year int) (*model.AnswerKey, error)
}

const answerKeyCollection = "round_three_answers"

type answerKeyMongoRepository struct {
	db *mongo.Database
}

func NewAnswerKeyMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) AnswerKeyRepository {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "yr", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := db.Collection(answerKeyCollection).Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create answer key indexes")
	}

	return &answerKeyMongoRepository{db: db}
}

func (r *answerKeyMongoRepository) CreateAnswerKey(ctx context.Context, key *model.AnswerKey) (*model.AnswerKey, error) {
	now := time.Now()
	key.CreatedAt = now
	key.UpdatedAt = now

	result, err := r.db.Collection(answerKeyCollection).InsertOne(ctx, key)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		key.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return key, nil
}

func (r *answerKeyMongoRepository) ListAnswerKeys(ctx context.Context) ([]*model.AnswerKey, error) {
	cursor, err := r.db.Collection(answerKeyCollection).Find(
		ctx,
		bson.M{},
		options.Find().SetSort(bson.D{{Key: "yr", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var keys []*model.AnswerKey
	if err := cursor.All(ctx, &keys); err != nil {
		return nil, err
	}

	return keys, nil
}

func (r *answerKeyMongoRepository) GetAnswerKeyByYear(ctx context.Context, year int) (*model.AnswerKey, error) {
	var key model.AnswerKey
	if err := r.db.Collection(answerKeyCollection).FindOne(ctx, bson.M{"yr": year}).Decode(&key); err != nil {
		return nil, err
	}

	return &key, nil
}

func (r *answerKeyMongoRepository) UpdateAnswerKeyByYear(
	ctx context.Context,
	year int,
	answers []string,
) (*model.AnswerKey, error) {
	result := r.db.Collection(answerKeyCollection).FindOneAndUpdate(
		ctx,
		bson.M{"yr": year},
		bson.M{"$set": bson.M{"answer": answers, "updated_at": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var key model.AnswerKey
	if err := result.Decode(&key); err != nil {
		return nil, err
	}

	return &key, nil
}

func (r *answerKeyMongoRepository) DeleteAnswerKeyByYear(ctx context.Context, year int) (*model.AnswerKey, error) {
	result := r.db.Collection(answerKeyCollection).FindOneAndDelete(ctx, bson.M{"yr": year})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var key model.AnswerKey
	if err := result.Decode(&key); err != nil {
		return nil, err
	}

	return &key, nil
}
