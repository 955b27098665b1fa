package auth

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/finledger/finance-api/internal/observability"
)

// KeySet is an immutable snapshot of HMAC verification keys indexed by key id.
// ActiveID names the key new tokens are signed with.
type KeySet struct {
	activeID string
	keys     map[string][]byte
}

// NewKeySet copies the given secrets into a new snapshot.
func NewKeySet(activeID string, secrets map[string][]byte) (*KeySet, error) {
	if len(secrets) == 0 {
		return nil, errors.New("key set is empty")
	}
	keys := make(map[string][]byte, len(secrets))
	for kid, secret := range secrets {
		if kid == "" || len(secret) == 0 {
			return nil, fmt.Errorf("key %q has no id or secret", kid)
		}
		keys[kid] = append([]byte(nil), secret...)
	}
	if _, ok := keys[activeID]; !ok {
		return nil, fmt.Errorf("active key %q not in key set", activeID)
	}
	return &KeySet{activeID: activeID, keys: keys}, nil
}

// Lookup returns the secret for kid. An empty kid resolves to the active key.
func (s *KeySet) Lookup(kid string) ([]byte, bool) {
	if kid == "" {
		kid = s.activeID
	}
	secret, ok := s.keys[kid]
	return secret, ok
}

// Active returns the signing key id and secret.
func (s *KeySet) Active() (string, []byte) {
	return s.activeID, s.keys[s.activeID]
}

// Len reports how many keys the set holds.
func (s *KeySet) Len() int {
	return len(s.keys)
}

// KeyRing holds the current KeySet. Readers never block; rotation swaps the pointer.
type KeyRing struct {
	current atomic.Pointer[KeySet]
}

// NewKeyRing returns a ring primed with set, which may be nil.
func NewKeyRing(set *KeySet) *KeyRing {
	ring := &KeyRing{}
	if set != nil {
		ring.current.Store(set)
	}
	return ring
}

// Current returns the live key set or ErrVerifierUnavailable if none was loaded.
func (r *KeyRing) Current() (*KeySet, error) {
	set := r.current.Load()
	if set == nil {
		return nil, fmt.Errorf("%w: no verification keys loaded", ErrVerifierUnavailable)
	}
	return set, nil
}

// Swap installs set and returns the previous one.
func (r *KeyRing) Swap(set *KeySet) *KeySet {
	return r.current.Swap(set)
}

// KeySource loads verification keys from wherever they are kept.
type KeySource interface {
	Load(ctx context.Context) (*KeySet, error)
}

// StaticKeySource serves a single secret from configuration.
type StaticKeySource struct {
	ID     string
	Secret string
}

// Load implements KeySource.
func (s StaticKeySource) Load(context.Context) (*KeySet, error) {
	return NewKeySet(s.ID, map[string][]byte{s.ID: []byte(s.Secret)})
}

// KeyRefresher reloads a KeyRing from a KeySource off the request path.
type KeyRefresher struct {
	source   KeySource
	ring     *KeyRing
	interval time.Duration
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// NewKeyRefresher wires a refresher. interval <= 0 disables periodic reloads.
func NewKeyRefresher(source KeySource, ring *KeyRing, interval time.Duration, logger *zap.Logger, metrics *observability.Metrics) *KeyRefresher {
	return &KeyRefresher{source: source, ring: ring, interval: interval, logger: logger, metrics: metrics}
}

// Refresh loads keys once. On failure the previously installed set stays live.
func (r *KeyRefresher) Refresh(ctx context.Context) error {
	set, err := r.source.Load(ctx)
	if err != nil {
		r.metrics.RecordKeyRefresh("error")
		return fmt.Errorf("load verification keys: %w", err)
	}
	r.ring.Swap(set)
	r.metrics.RecordKeyRefresh("ok")
	activeID, _ := set.Active()
	r.logger.Debug("verification keys refreshed", zap.String("active_kid", activeID), zap.Int("keys", set.Len()))
	return nil
}

// Run refreshes on every tick until ctx is done.
func (r *KeyRefresher) Run(ctx context.Context) {
	if r.interval <= 0 {
		return
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Refresh(ctx); err != nil {
				r.logger.Warn("key refresh failed; keeping previous keys", zap.Error(err))
			}
		}
	}
}
