package testutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testSigningKey = "test-signing-key"

// TokenOption tweaks the claims of a minted test token.
type TokenOption func(jwt.MapClaims)

// WithRole sets the role claim.
func WithRole(role string) TokenOption {
	return func(c jwt.MapClaims) {
		c["role"] = role
	}
}

// WithoutExpiry drops the exp claim.
func WithoutExpiry() TokenOption {
	return func(c jwt.MapClaims) {
		delete(c, "exp")
	}
}

// MintToken signs an HS256 access token for subject that expires expiresIn
// after now. Negative durations produce already-expired tokens.
func MintToken(t *testing.T, subject string, now time.Time, expiresIn time.Duration, opts ...TokenOption) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": jwt.NewNumericDate(now),
		"exp": jwt.NewNumericDate(now.Add(expiresIn)),
		"iss": "test-issuer",
		"jti": uuid.NewString(),
	}
	for _, opt := range opts {
		opt(claims)
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSigningKey))
	require.NoError(t, err)
	return signed
}
