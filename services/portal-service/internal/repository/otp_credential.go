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

// ErrCredentialNotFound is returned when no code is pending for an email.
var ErrCredentialNotFound = errors.New("otp credential not found")

// OTPCredentialRepository stores pending one-time codes, one per email.
type OTPCredentialRepository interface {
	// SaveCredential stores the credential, replacing any pending one.
	SaveCredential(ctx context.Context, credential *model.OTPCredential) error

	// GetCredential returns the pending credential for email.
	GetCredential(ctx context.Context, email string) (*model.OTPCredential, error)

	// DeleteCredential removes the pending credential for email, if any.
	DeleteCredential(ctx context.Context, email string) error
}

const otpCredentialCollection = "otp_credentials"

type otpCredentialMongoRepository struct {
	db *mongo.Database
}

// NewOTPCredentialMongoRepository creates a MongoDB repository for one-time codes.
// Entries are dropped by a TTL index once their purge time passes.
func NewOTPCredentialMongoRepository(
	ctx context.Context,
	logger *zerolog.Logger,
	db *mongo.Database,
) OTPCredentialRepository {
	collection := db.Collection(otpCredentialCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "purge_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0), // TTL index
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create otp credential indexes")
	}

	return &otpCredentialMongoRepository{db: db}
}

func (r *otpCredentialMongoRepository) SaveCredential(ctx context.Context, credential *model.OTPCredential) error {
	credential.CreatedAt = time.Now()

	_, err := r.db.Collection(otpCredentialCollection).ReplaceOne(
		ctx,
		bson.M{"email": credential.Email},
		credential,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *otpCredentialMongoRepository) GetCredential(ctx context.Context, email string) (*model.OTPCredential, error) {
	var credential model.OTPCredential
	err := r.db.Collection(otpCredentialCollection).FindOne(ctx, bson.M{"email": email}).Decode(&credential)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCredentialNotFound
		}
		return nil, err
	}

	return &credential, nil
}

func (r *otpCredentialMongoRepository) DeleteCredential(ctx context.Context, email string) error {
	_, err := r.db.Collection(otpCredentialCollection).DeleteOne(ctx, bson.M{"email": email})
	return err
}
