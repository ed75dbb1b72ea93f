package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// QuestionType is the flavour of a round one question.
type QuestionType string

const (
	QuestionTypeRiddle      QuestionType = "riddle"
	QuestionTypeQuiz        QuestionType = "quiz"
	QuestionTypeUnscrambled QuestionType = "unscrambled"
	QuestionTypeBinary      QuestionType = "binary"
)

// Question is a round one question for a cohort.
type Question struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string        `bson:"title"         json:"title"`
	Description string        `bson:"descp"         json:"descp"`
	Question    string        `bson:"qn"            json:"qn"`
	Answer      string        `bson:"ans"           json:"ans,omitempty"`
	Type        QuestionType  `bson:"type"          json:"type,omitempty"`
	// URL is only set on steganography questions.
	URL       string    `bson:"url,omitempty" json:"url,omitempty"`
	Year      int       `bson:"yr"            json:"yr"`
	CreatedAt time.Time `bson:"created_at"    json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at"    json:"updatedAt"`
}

// Public returns a copy of the question without its answer.
func (q Question) Public() Question {
	q.Answer = ""
	return q
}

// RoundOneAttempt records a correct round one answer by a player.
type RoundOneAttempt struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"-"`
	Email      string        `bson:"email"         json:"-"`
	QuestionID bson.ObjectID `bson:"question_id"   json:"questionId"`
	Steg       bool          `bson:"steg"          json:"steg"`
	AnsweredAt time.Time     `bson:"answered_at"   json:"answeredAt"`
}
