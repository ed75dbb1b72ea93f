package types

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the payload of a portal session token.
type SessionClaims struct {
	Email string `json:"email"`
	Year  int    `json:"year"`
	jwt.RegisteredClaims
}

// SessionToken is returned to the client after a successful OTP verification.
type SessionToken struct {
	Token        string
	RedirectPath string
	Year         int
}
