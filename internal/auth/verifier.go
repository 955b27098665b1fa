package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Credential failures. The first three are the caller's fault and surface as 401;
// ErrVerifierUnavailable is ours and surfaces as 500.
var (
	ErrMissingCredential   = errors.New("missing credential")
	ErrInvalidCredential   = errors.New("invalid credential")
	ErrExpiredCredential   = errors.New("expired credential")
	ErrVerifierUnavailable = errors.New("verifier unavailable")
)

// SubjectID identifies the user a request acts as.
type SubjectID int64

// String renders the id the way it is encoded in the sub claim.
func (s SubjectID) String() string {
	return strconv.FormatInt(int64(s), 10)
}

// ParseSubjectID decodes a sub claim value.
func ParseSubjectID(raw string) (SubjectID, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: subject %q is not a user id", ErrInvalidCredential, raw)
	}
	return SubjectID(id), nil
}

// CredentialVerifier turns a raw bearer token into a subject.
type CredentialVerifier interface {
	Verify(raw string) (SubjectID, error)
}

// ExtractBearer pulls the token out of an Authorization header value.
func ExtractBearer(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("%w: no authorization header", ErrMissingCredential)
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", fmt.Errorf("%w: authorization scheme is not bearer", ErrMissingCredential)
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", fmt.Errorf("%w: empty bearer token", ErrMissingCredential)
	}
	return token, nil
}

// Verifier validates HS256 tokens against the keys in a KeyRing.
type Verifier struct {
	keys *KeyRing
	now  func() time.Time
}

// VerifierOption customizes a Verifier.
type VerifierOption func(*Verifier)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) VerifierOption {
	return func(v *Verifier) {
		v.now = now
	}
}

// NewVerifier builds a verifier reading keys from ring.
func NewVerifier(ring *KeyRing, opts ...VerifierOption) *Verifier {
	v := &Verifier{keys: ring, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify checks signature, structure and expiry, and returns the embedded subject.
func (v *Verifier) Verify(raw string) (SubjectID, error) {
	if raw == "" {
		return 0, ErrMissingCredential
	}

	set, err := v.keys.Current()
	if err != nil {
		return 0, err
	}

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		secret, ok := set.Lookup(kid)
		if !ok {
			return nil, fmt.Errorf("unknown key id %q", kid)
		}
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, fmt.Errorf("%w: %w", ErrExpiredCredential, err)
		}
		return 0, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}

	if claims.Subject == "" {
		return 0, fmt.Errorf("%w: token has no subject", ErrInvalidCredential)
	}
	return ParseSubjectID(claims.Subject)
}
