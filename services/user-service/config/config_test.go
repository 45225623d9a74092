package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commoncfg "github.com/yashrajoria/shopping-backend/services/common/config"
)

func TestLoad(t *testing.T) {
	t.Setenv("POSTGRES_USER", "users")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "users")
	t.Setenv("USER_IMAGE_BUCKET", "user-images")
	t.Setenv("MAX_PAGE_LIMIT", "")

	cfg, err := Load(context.Background(), commoncfg.EnvResolver{Keys: CredentialKeys()})
	require.NoError(t, err)
	assert.Equal(t, "user-images", cfg.ImageBucket)
	assert.Equal(t, 100, cfg.MaxPageLimit)
	assert.Equal(t, "users", cfg.Postgres.DBName)
}

func TestLoad_MissingDatabase(t *testing.T) {
	t.Setenv("POSTGRES_USER", "")
	t.Setenv("POSTGRES_PASSWORD", "")
	t.Setenv("POSTGRES_DB", "")

	_, err := Load(context.Background(), commoncfg.EnvResolver{Keys: CredentialKeys()})
	assert.Error(t, err)
}
