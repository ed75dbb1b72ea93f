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

// QuestionRepository defines the interface for round one question storage.
type QuestionRepository interface {
	CreateQuestion(ctx context.Context, question *model.Question) (*model.Question, error)
	GetQuestion(ctx context.Context, id string) (*model.Question, error)
	ListQuestionsByYear(ctx context.Context, year int) ([]*model.Question, error)
	UpdateQuestion(ctx context.Context, id string, params UpdateQuestionParams) (*model.Question, error)
	DeleteQuestion(ctx context.Context, id string) (*model.Question, error)

	// ExistsByTitleOrQuestion reports whether another question uses title or
	// question text. excludeID, when non-empty, is ignored in the check.
	ExistsByTitleOrQuestion(ctx context.Context, title, question, excludeID string) (bool, error)
}

// UpdateQuestionParams defines the optional parameters for updating a question.
// Only the fields that are not nil will be updated.
type UpdateQuestionParams struct {
	Title       *string
	Description *string
	Question    *string
	Answer      *string
	Type        *model.QuestionType
	URL         *string
	Year        *int
}

const (
	questionCollection     = "questions"
	stegQuestionCollection = "steg_questions"
)

type questionMongoRepository struct {
	collection string
	db         *mongo.Database
}

// NewQuestionMongoRepository creates the repository of regular round one questions.
func NewQuestionMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) QuestionRepository {
	return newQuestionMongoRepository(ctx, logger, db, questionCollection)
}

// NewStegQuestionMongoRepository creates the repository of steganography questions.
func NewStegQuestionMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) QuestionRepository {
	return newQuestionMongoRepository(ctx, logger, db, stegQuestionCollection)
}

func newQuestionMongoRepository(
	ctx context.Context,
	logger *zerolog.Logger,
	db *mongo.Database,
	collectionName string,
) QuestionRepository {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "yr", Value: 1}}},
		{Keys: bson.D{{Key: "title", Value: 1}}},
		{Keys: bson.D{{Key: "qn", Value: 1}}},
	}

	_, err := db.Collection(collectionName).Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Str("collection", collectionName).Msg("failed to create question indexes")
	}

	return &questionMongoRepository{collection: collectionName, db: db}
}

func (r *questionMongoRepository) CreateQuestion(ctx context.Context, question *model.Question) (*model.Question, error) {
	now := time.Now()
	question.CreatedAt = now
	question.UpdatedAt = now

	result, err := r.db.Collection(r.collection).InsertOne(ctx, question)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		question.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return question, nil
}

func (r *questionMongoRepository) GetQuestion(ctx context.Context, id string) (*model.Question, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var question model.Question
	if err := r.db.Collection(r.collection).FindOne(ctx, bson.M{"_id": objectID}).Decode(&question); err != nil {
		return nil, err
	}

	return &question, nil
}

func (r *questionMongoRepository) ListQuestionsByYear(ctx context.Context, year int) ([]*model.Question, error) {
	cursor, err := r.db.Collection(r.collection).Find(
		ctx,
		bson.M{"yr": year},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []*model.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}

	return questions, nil
}

func (r *questionMongoRepository) UpdateQuestion(
	ctx context.Context,
	id string,
	params UpdateQuestionParams,
) (*model.Question, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	// Build update query
	updateMap := bson.M{}
	if params.Title != nil {
		updateMap["title"] = *params.Title
	}
	if params.Description != nil {
		updateMap["descp"] = *params.Description
	}
	if params.Question != nil {
		updateMap["qn"] = *params.Question
	}
	if params.Answer != nil {
		updateMap["ans"] = *params.Answer
	}
	if params.Type != nil {
		updateMap["type"] = *params.Type
	}
	if params.URL != nil {
		updateMap["url"] = *params.URL
	}
	if params.Year != nil {
		updateMap["yr"] = *params.Year
	}

	updateMap["updated_at"] = time.Now()

	result := r.db.Collection(r.collection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": updateMap},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var question model.Question
	if err := result.Decode(&question); err != nil {
		return nil, err
	}

	return &question, nil
}

func (r *questionMongoRepository) DeleteQuestion(ctx context.Context, id string) (*model.Question, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(r.collection).FindOneAndDelete(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var question model.Question
	if err := result.Decode(&question); err != nil {
		return nil, err
	}

	return &question, nil
}

func (r *questionMongoRepository) ExistsByTitleOrQuestion(
	ctx context.Context,
	title, question, excludeID string,
) (bool, error) {
	or := bson.A{}
	if title != "" {
		or = append(or, bson.M{"title": title})
	}
	if question != "" {
		or = append(or, bson.M{"qn": question})
	}
	if len(or) == 0 {
		return false, nil
	}

	filter := bson.M{"$or": or}
	if excludeID != "" {
		objectID, err := bson.ObjectIDFromHex(excludeID)
		if err != nil {
			return false, err
		}
		filter["_id"] = bson.M{"$ne": objectID}
	}

	count, err := r.db.Collection(r.collection).CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
