package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func newTestClaims(expiresIn time.Duration) testClaims {
	now := time.Now()
	return testClaims{
		Email: "student@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}
}

func TestGenerateAndValidate(t *testing.T) {
	a := NewJWTAuthenticator("", "")

	token, err := a.GenerateToken(newTestClaims(time.Hour), "secret")
	require.NoError(t, err)

	var claims testClaims
	_, err = a.ValidateTokenWithClaims(token, "secret", &claims)
	require.NoError(t, err)
	assert.Equal(t, "student@x.com", claims.Email)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	a := NewJWTAuthenticator("", "")

	token, err := a.GenerateToken(newTestClaims(time.Hour), "right")
	require.NoError(t, err)

	_, err = a.ValidateTokenWithClaims(token, "wrong", &testClaims{})
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	a := NewJWTAuthenticator("", "")

	token, err := a.GenerateToken(newTestClaims(-time.Minute), "secret")
	require.NoError(t, err)

	_, err = a.ValidateTokenWithClaims(token, "secret", &testClaims{})
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateRequiresExpiry(t *testing.T) {
	a := NewJWTAuthenticator("", "")

	token, err := a.GenerateToken(testClaims{Email: "a@b.c"}, "secret")
	require.NoError(t, err)

	_, err = a.ValidateTokenWithClaims(token, "secret", &testClaims{})
	assert.Error(t, err)
}

func TestValidateRejectsOtherAlgorithms(t *testing.T) {
	a := NewJWTAuthenticator("", "")

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, newTestClaims(time.Hour))
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = a.ValidateTokenWithClaims(signed, "secret", &testClaims{})
	assert.Error(t, err)
}

func TestValidateChecksAudienceAndIssuer(t *testing.T) {
	a := NewJWTAuthenticator("portal", "csea")

	claims := newTestClaims(time.Hour)
	claims.Audience = jwt.ClaimStrings{"portal"}
	claims.Issuer = "csea"
	token, err := a.GenerateToken(claims, "secret")
	require.NoError(t, err)

	_, err = a.ValidateTokenWithClaims(token, "secret", &testClaims{})
	require.NoError(t, err)

	other := newTestClaims(time.Hour)
	other.Issuer = "someone-else"
	other.Audience = jwt.ClaimStrings{"portal"}
	token, err = a.GenerateToken(other, "secret")
	require.NoError(t, err)

	_, err = a.ValidateTokenWithClaims(token, "secret", &testClaims{})
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
}
