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

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpsertUser(ctx context.Context, user *model.User) (*model.User, error)
}

const userCollection = "users"

type userMongoRepository struct {
	db *mongo.Database
}

func NewUserMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) UserRepository {
	collection := db.Collection(userCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create user indexes")
	}

	return &userMongoRepository{db: db}
}

func (r *userMongoRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	result := r.db.Collection(userCollection).FindOne(ctx, bson.M{"email": model.NormalizeEmail(email)})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

// UpsertUser inserts the user or refreshes the profile of an existing one
// with the same email.
func (r *userMongoRepository) UpsertUser(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now()
	user.Email = model.NormalizeEmail(user.Email)

	set := bson.M{
		"name":       user.Name,
		"department": user.Department,
		"year":       user.Year,
		"updated_at": now,
	}
	if user.PasswordHash != "" {
		set["password_hash"] = user.PasswordHash
	}

	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		bson.M{"email": user.Email},
		bson.M{
			"$set":         set,
			"$setOnInsert": bson.M{"email": user.Email, "created_at": now},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var updated model.User
	if err := result.Decode(&updated); err != nil {
		return nil, err
	}

	return &updated, nil
}
