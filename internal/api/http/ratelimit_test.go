package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finledger/finance-api/internal/auth"
)

func TestSubjectRateLimiterCleanup(t *testing.T) {
	rl := NewSubjectRateLimiter(1, 1, nil)
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.limiterFor(auth.SubjectID(1))
	now = now.Add(10 * time.Minute)
	rl.limiterFor(auth.SubjectID(2))

	removed := rl.Cleanup(5 * time.Minute)
	assert.Equal(t, 1, removed)
	require.Len(t, rl.limiters, 1)
	_, ok := rl.limiters[auth.SubjectID(2)]
	assert.True(t, ok)
}

func TestSubjectRateLimiterReusesLimiter(t *testing.T) {
	rl := NewSubjectRateLimiter(1, 1, nil)

	first := rl.limiterFor(auth.SubjectID(7))
	assert.Same(t, first, rl.limiterFor(auth.SubjectID(7)))
	assert.NotSame(t, first, rl.limiterFor(auth.SubjectID(8)))
}
