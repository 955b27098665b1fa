package http

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/finledger/finance-api/internal/auth"
	"github.com/finledger/finance-api/internal/observability"
	apperrors "github.com/finledger/finance-api/pkg/util/errorutil"
)

type subjectLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// SubjectRateLimiter throttles protected routes per authenticated subject. It
// must be mounted after the auth gate.
type SubjectRateLimiter struct {
	mu       sync.Mutex
	limiters map[auth.SubjectID]*subjectLimiter
	rate     rate.Limit
	burst    int
	metrics  *observability.Metrics
	now      func() time.Time
}

// NewSubjectRateLimiter creates a limiter. rps <= 0 disables limiting.
func NewSubjectRateLimiter(rps float64, burst int, metrics *observability.Metrics) *SubjectRateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &SubjectRateLimiter{
		limiters: make(map[auth.SubjectID]*subjectLimiter),
		rate:     rate.Limit(rps),
		burst:    burst,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Handle enforces the limit for the request's subject.
func (rl *SubjectRateLimiter) Handle(c *fiber.Ctx) error {
	if rl.rate <= 0 {
		return c.Next()
	}
	identity, ok := auth.IdentityFromCtx(c)
	if !ok {
		return c.Next()
	}
	subject, ok := identity.Subject()
	if !ok {
		return c.Next()
	}

	if !rl.limiterFor(subject).Allow() {
		rl.metrics.RecordRateLimited()
		return apperrors.NewTooManyRequests("Too many requests")
	}
	return c.Next()
}

func (rl *SubjectRateLimiter) limiterFor(subject auth.SubjectID) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.limiters[subject]
	if !ok {
		entry = &subjectLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[subject] = entry
	}
	entry.lastSeen = rl.now()
	return entry.limiter
}

// Cleanup forgets subjects idle for longer than maxIdle.
func (rl *SubjectRateLimiter) Cleanup(maxIdle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-maxIdle)
	removed := 0
	for subject, entry := range rl.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.limiters, subject)
			removed++
		}
	}
	return removed
}
