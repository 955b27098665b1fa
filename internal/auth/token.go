package auth

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer signs access tokens with the active key of a KeyRing.
type Issuer struct {
	keys *KeyRing
	ttl  time.Duration
	now  func() time.Time
}

// NewIssuer builds an issuer. ttl <= 0 falls back to one hour.
func NewIssuer(ring *KeyRing, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Issuer{keys: ring, ttl: ttl, now: time.Now}
}

// Issue builds and signs a token for subject.
func (i *Issuer) Issue(subject SubjectID) (string, time.Time, error) {
	set, err := i.keys.Current()
	if err != nil {
		return "", time.Time{}, err
	}
	kid, secret := set.Active()

	issuedAt := i.now()
	expiresAt := issuedAt.Add(i.ttl)
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = kid
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}
