package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/finledger/finance-api/pkg/util/errorutil"
)

const identityKey = "auth_identity"

type identityContextKey struct{}

// ErrIdentityAlreadySet is returned when a request's subject is assigned twice.
var ErrIdentityAlreadySet = errors.New("identity already set")

// Identity carries the verified subject for a single request. It is created by the
// gate, set once, and must not outlive or be shared beyond that request.
type Identity struct {
	subject       SubjectID
	authenticated bool
}

// NewIdentity returns an unauthenticated identity.
func NewIdentity() *Identity {
	return &Identity{}
}

// SetSubject records the verified subject and marks the identity authenticated.
func (i *Identity) SetSubject(id SubjectID) error {
	if i.authenticated {
		return ErrIdentityAlreadySet
	}
	if id <= 0 {
		return ErrInvalidCredential
	}
	i.subject = id
	i.authenticated = true
	return nil
}

// Subject returns the verified subject, if any.
func (i *Identity) Subject() (SubjectID, bool) {
	if i == nil || !i.authenticated {
		return 0, false
	}
	return i.subject, true
}

// Authenticated reports whether the gate accepted the request.
func (i *Identity) Authenticated() bool {
	return i != nil && i.authenticated
}

// ContextWithIdentity attaches identity to ctx for code below the HTTP layer.
func ContextWithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext retrieves the identity stored by ContextWithIdentity.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(*Identity)
	return identity, ok && identity != nil
}

// IdentityFromCtx retrieves the identity the gate attached to the request.
func IdentityFromCtx(c *fiber.Ctx) (*Identity, bool) {
	identity, ok := c.Locals(identityKey).(*Identity)
	return identity, ok && identity != nil
}

// SubjectHandler is a handler that is handed the verified subject explicitly.
type SubjectHandler func(c *fiber.Ctx, subject SubjectID) error

// Protected adapts a SubjectHandler to fiber. It must sit behind the gate; a
// request without an authenticated identity never reaches h.
func Protected(h SubjectHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromCtx(c)
		if !ok {
			return apperrors.NewUnauthorized(apperrors.CodeTokenMissing, ErrMissingCredential)
		}
		subject, ok := identity.Subject()
		if !ok {
			return apperrors.NewUnauthorized(apperrors.CodeTokenMissing, ErrMissingCredential)
		}
		return h(c, subject)
	}
}
