package model

import "time"

// OTPCredential is a pending one-time code for an email address.
// Code and ExpiresAt are always written and removed together.
type OTPCredential struct {
	Email     string    `bson:"email"      json:"email"`
	Code      string    `bson:"code"       json:"code"`
	ExpiresAt time.Time `bson:"expires_at" json:"expiresAt"`
	// PurgeAt is when the store may drop the entry. It trails ExpiresAt so
	// a lapsed code can still be reported as expired.
	PurgeAt   time.Time `bson:"purge_at"   json:"purgeAt"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// Expired reports whether the code has lapsed at now.
func (c *OTPCredential) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
