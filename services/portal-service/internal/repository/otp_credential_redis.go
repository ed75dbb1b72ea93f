package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/model"
)

const otpKeyPrefix = "otp:"

type otpCredentialRedisRepository struct {
	rdb *redis.Client
}

// NewOTPCredentialRedisRepository creates a Redis repository for one-time
// codes. Each entry lives under otp:<email> until its purge time.
func NewOTPCredentialRedisRepository(rdb *redis.Client) OTPCredentialRepository {
	return &otpCredentialRedisRepository{rdb: rdb}
}

func otpKey(email string) string {
	return otpKeyPrefix + email
}

func (r *otpCredentialRedisRepository) SaveCredential(ctx context.Context, credential *model.OTPCredential) error {
	credential.CreatedAt = time.Now()

	payload, err := json.Marshal(credential)
	if err != nil {
		return err
	}

	ttl := time.Until(credential.PurgeAt)
	if ttl < time.Second {
		ttl = time.Second
	}

	return r.rdb.Set(ctx, otpKey(credential.Email), payload, ttl).Err()
}

func (r *otpCredentialRedisRepository) GetCredential(ctx context.Context, email string) (*model.OTPCredential, error) {
	payload, err := r.rdb.Get(ctx, otpKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCredentialNotFound
		}
		return nil, err
	}

	var credential model.OTPCredential
	if err := json.Unmarshal(payload, &credential); err != nil {
		return nil, err
	}

	return &credential, nil
}

func (r *otpCredentialRedisRepository) DeleteCredential(ctx context.Context, email string) error {
	return r.rdb.Del(ctx, otpKey(email)).Err()
}
