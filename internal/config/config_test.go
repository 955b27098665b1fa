package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("AUTH_KEY_SOURCE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, KeySourceEnv, cfg.Auth.KeySource)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, "default", cfg.Auth.KeyID)
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.AccessTokenTTL())
}

func TestLoadRequiresSecretForEnvSource(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("AUTH_KEY_SOURCE", "env")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "redis source",
			cfg: Config{
				Redis: RedisConfig{Addr: "localhost:6379"},
				Auth:  AuthConfig{KeySource: KeySourceRedis, KeyRefreshSeconds: 30},
			},
		},
		{
			name:    "redis source without refresh",
			cfg:     Config{Redis: RedisConfig{Addr: "localhost:6379"}, Auth: AuthConfig{KeySource: KeySourceRedis}},
			wantErr: true,
		},
		{
			name:    "unknown source",
			cfg:     Config{Auth: AuthConfig{KeySource: "vault", JWTSecret: "x"}},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestKeyRefreshIntervalFallback(t *testing.T) {
	assert.Equal(t, time.Minute, AuthConfig{}.KeyRefreshInterval())
	assert.Equal(t, 5*time.Second, AuthConfig{KeyRefreshSeconds: 5}.KeyRefreshInterval())
}
