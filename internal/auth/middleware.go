package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/finledger/finance-api/internal/observability"
	apperrors "github.com/finledger/finance-api/pkg/util/errorutil"
)

// Gate outcomes, as recorded in metrics and logs.
const (
	outcomeAuthenticated = "authenticated"
	outcomeMissing       = "missing"
	outcomeInvalid       = "invalid"
	outcomeExpired       = "expired"
	outcomeUnavailable   = "unavailable"
	outcomeAborted       = "aborted"
)

// AuthMiddleware is the gate in front of every protected route group.
type AuthMiddleware struct {
	verifier CredentialVerifier
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(verifier CredentialVerifier, logger *zap.Logger, metrics *observability.Metrics) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, logger: logger, metrics: metrics}
}

// Handle enforces authentication. It either returns an error, which the error
// middleware renders, or hands off to the next handler; never both.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	raw, err := ExtractBearer(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return m.reject(c, err)
	}

	subject, err := m.verifier.Verify(raw)
	if err != nil {
		return m.reject(c, err)
	}

	ctx := c.UserContext()
	if err := ctx.Err(); err != nil {
		m.metrics.RecordAuthDecision(outcomeAborted)
		return apperrors.NewRequestAborted(err)
	}

	identity := NewIdentity()
	if err := identity.SetSubject(subject); err != nil {
		return m.reject(c, err)
	}
	c.Locals(identityKey, identity)
	c.SetUserContext(ContextWithIdentity(ctx, identity))

	m.metrics.RecordAuthDecision(outcomeAuthenticated)
	return c.Next()
}

func (m *AuthMiddleware) reject(c *fiber.Ctx, err error) error {
	var (
		outcome string
		code    = apperrors.CodeTokenInvalid
	)
	switch {
	case errors.Is(err, ErrMissingCredential):
		outcome, code = outcomeMissing, apperrors.CodeTokenMissing
	case errors.Is(err, ErrExpiredCredential):
		outcome = outcomeExpired
	case errors.Is(err, ErrInvalidCredential):
		outcome = outcomeInvalid
	default:
		m.metrics.RecordAuthDecision(outcomeUnavailable)
		m.logger.Error("credential verification failed",
			zap.String("path", c.Path()),
			zap.Error(err))
		return apperrors.NewInternalError(err)
	}

	m.metrics.RecordAuthDecision(outcome)
	m.logger.Debug("request rejected by auth gate",
		zap.String("path", c.Path()),
		zap.String("reason", outcome),
		zap.Error(err))
	return apperrors.NewUnauthorized(code, err)
}
