package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commoncfg "github.com/yashrajoria/shopping-backend/services/common/config"
)

func setDatabase(t *testing.T) {
	t.Setenv("POSTGRES_USER", "products")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "products")
}

func TestLoad_Defaults(t *testing.T) {
	setDatabase(t)
	t.Setenv("PORT", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("CACHE_TTL", "")

	cfg, err := Load(context.Background(), commoncfg.EnvResolver{Keys: CredentialKeys()})
	require.NoError(t, err)
	assert.Equal(t, "8084", cfg.Port)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.Equal(t, "products", cfg.Postgres.DBName)
}

func TestLoad_CacheSettings(t *testing.T) {
	setDatabase(t)
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("CACHE_TTL", "90")

	cfg, err := Load(context.Background(), commoncfg.EnvResolver{Keys: CredentialKeys()})
	require.NoError(t, err)
	assert.Equal(t, "redis://cache:6379/1", cfg.RedisURL)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
}

func TestLoad_RejectsBadLimits(t *testing.T) {
	setDatabase(t)
	t.Setenv("MAX_PAGE_SIZE", "0")
	_, err := Load(context.Background(), commoncfg.EnvResolver{Keys: CredentialKeys()})
	assert.ErrorContains(t, err, "MAX_PAGE_SIZE")

	t.Setenv("MAX_PAGE_SIZE", "")
	t.Setenv("LIST_CACHE_TTL", "-1s")
	_, err = Load(context.Background(), commoncfg.EnvResolver{Keys: CredentialKeys()})
	assert.ErrorContains(t, err, "LIST_CACHE_TTL")
}

func TestLoad_MissingDatabase(t *testing.T) {
	t.Setenv("POSTGRES_USER", "")
	t.Setenv("POSTGRES_PASSWORD", "")
	t.Setenv("POSTGRES_DB", "")

	_, err := Load(context.Background(), commoncfg.EnvResolver{Keys: CredentialKeys()})
	assert.Error(t, err)
}
