package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Progress is the persisted round progression of a player.
type Progress struct {
	ID               bson.ObjectID `bson:"_id,omitempty"     json:"-"`
	Email            string        `bson:"email"             json:"email"`
	Year             int           `bson:"year"              json:"year"`
	Round            string        `bson:"round"             json:"round"`
	Fragments        []string      `bson:"fragments"         json:"fragments"`
	CompletedPuzzles []int         `bson:"completed_puzzles" json:"completedPuzzles"`
	CompletedAt      *time.Time    `bson:"completed_at"      json:"completedAt,omitempty"`
	CreatedAt        time.Time     `bson:"created_at"        json:"createdAt"`
	UpdatedAt        time.Time     `bson:"updated_at"        json:"updatedAt"`
}
