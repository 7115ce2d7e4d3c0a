package service

import (
	"context"
	"errors"
	"testing"

	"coursehub/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapSecrets map[string]string

func (m mapSecrets) AccessSecret(_ context.Context, resource string) (string, error) {
	v, ok := m[resource]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func TestSecretVersionName(t *testing.T) {
	assert.Equal(t, "projects/p/secrets/jwt/versions/latest", SecretVersionName("p", "jwt"))
	assert.Equal(t, "projects/x/secrets/jwt/versions/latest", SecretVersionName("p", "projects/x/secrets/jwt"))
	assert.Equal(t, "projects/x/secrets/jwt/versions/3", SecretVersionName("p", "projects/x/secrets/jwt/versions/3"))
}

func TestResolveSecrets(t *testing.T) {
	cfg := &config.Config{
		JWTSecret:         "from-env",
		StripeSecretKey:   "sk_env",
		SecretJWTResource: "jwt-secret",
	}
	require.NoError(t, ResolveSecrets(context.Background(), cfg, mapSecrets{"jwt-secret": "from-secret-manager"}))
	assert.Equal(t, "from-secret-manager", cfg.JWTSecret)
	assert.Equal(t, "sk_env", cfg.StripeSecretKey)

	cfg.SecretStripeResource = "missing"
	assert.Error(t, ResolveSecrets(context.Background(), cfg, mapSecrets{}))
}
