package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisKeyClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
}

// RedisKeySource reads signing keys shared by every instance of the service.
//
// Layout under prefix:
//
//	<prefix>:keys    hash of kid -> secret
//	<prefix>:active  kid used to sign new tokens
//
// Rotation is done by adding the new key to the hash, then pointing active at it,
// and removing the old key once every token signed with it has expired.
type RedisKeySource struct {
	client redisKeyClient
	prefix string
}

// NewRedisKeySource builds a source over a go-redis client.
func NewRedisKeySource(client redisKeyClient, prefix string) *RedisKeySource {
	return &RedisKeySource{client: client, prefix: prefix}
}

// Load implements KeySource.
func (s *RedisKeySource) Load(ctx context.Context) (*KeySet, error) {
	activeID, err := s.client.Get(ctx, s.prefix+":active").Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s:active not set", s.prefix)
	}
	if err != nil {
		return nil, err
	}

	raw, err := s.client.HGetAll(ctx, s.prefix+":keys").Result()
	if err != nil {
		return nil, err
	}

	secrets := make(map[string][]byte, len(raw))
	for kid, secret := range raw {
		secrets[kid] = []byte(secret)
	}
	return NewKeySet(activeID, secrets)
}
