package model

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Cohorts a registered student can belong to.
const (
	YearOne = 1
	YearTwo = 2
)

// User represents a pre-registered participant of the event.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty"           json:"id"`
	Name         string        `bson:"name"                    json:"name"`
	Email        string        `bson:"email"                   json:"email"`
	PasswordHash string        `bson:"password_hash,omitempty" json:"-"`
	Department   string        `bson:"department"              json:"department"`
	Year         int           `bson:"year"                    json:"year"`
	CreatedAt    time.Time     `bson:"created_at"              json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updated_at"              json:"updatedAt"`
}

// ValidYear reports whether year is one of the two cohorts.
func ValidYear(year int) bool {
	return year == YearOne || year == YearTwo
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
