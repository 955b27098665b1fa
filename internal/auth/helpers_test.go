package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testKID    = "k1"
	testSecret = "test-secret-with-enough-entropy-0001"
)

var testEpoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testRing(t *testing.T) *KeyRing {
	t.Helper()
	set, err := NewKeySet(testKID, map[string][]byte{testKID: []byte(testSecret)})
	require.NoError(t, err)
	return NewKeyRing(set)
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func signToken(t *testing.T, kid, secret string, claims jwt.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func tokenFor(t *testing.T, subject string, expiresAt time.Time) string {
	t.Helper()
	return signToken(t, testKID, testSecret, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(testEpoch),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
}

func jwtClaims(subject string, expiresAt time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
}
