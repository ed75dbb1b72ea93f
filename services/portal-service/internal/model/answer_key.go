package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// AnswerKey holds the accepted round three answers for a cohort.
type AnswerKey struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Answers   []string      `bson:"answer"        json:"answer,omitempty"`
	Year      int           `bson:"yr"            json:"yr"`
	CreatedAt time.Time     `bson:"created_at"    json:"createdAt"`
	UpdatedAt time.Time     `bson:"updated_at"    json:"updatedAt"`
}

// Public returns a copy of the key without its accepted answers.
func (k AnswerKey) Public() AnswerKey {
	k.Answers = nil
	return k
}
