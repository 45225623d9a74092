package config

import (
	"context"
	"fmt"

	commoncfg "github.com/yashrajoria/shopping-backend/services/common/config"
	"github.com/yashrajoria/shopping-backend/services/common/database"
)

type Config struct {
	Environment       string
	LogLevel          string
	Port              string
	AWSRegion         string
	Postgres          database.PostgresConfig
	MaxPageLimit      int
	ImageBucket       string
	BcryptCost        int
	AllowedOrigins    string
	CloudWatchEnabled bool
	CloudWatchGroup   string
	MetricsNamespace  string
}

func SecretID() string {
	return commoncfg.GetEnv("USERS_SECRET_ID", "users/credentials")
}

func CredentialKeys() []string {
	return database.PostgresKeys
}

func Load(ctx context.Context, resolver commoncfg.CredentialResolver) (*Config, error) {
	env := commoncfg.Environment()
	creds, err := resolver.Resolve(ctx, env)
	if err != nil {
		return nil, err
	}
	pg, err := database.PostgresConfigFrom(creds)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment:       env,
		LogLevel:          commoncfg.GetEnv("LOG_LEVEL", "info"),
		Port:              commoncfg.GetEnv("PORT", "8085"),
		AWSRegion:         commoncfg.GetEnv("AWS_REGION", "us-east-1"),
		Postgres:          pg,
		MaxPageLimit:      commoncfg.GetEnvInt("MAX_PAGE_LIMIT", 100),
		ImageBucket:       commoncfg.GetEnv("USER_IMAGE_BUCKET", ""),
		BcryptCost:        commoncfg.GetEnvInt("BCRYPT_COST", 12),
		AllowedOrigins:    commoncfg.GetEnv("ALLOWED_ORIGINS", "*"),
		CloudWatchEnabled: commoncfg.GetEnvBool("CLOUDWATCH_ENABLED", false),
		CloudWatchGroup:   commoncfg.GetEnv("CLOUDWATCH_LOG_GROUP", "/shopping/services"),
		MetricsNamespace:  commoncfg.GetEnv("CLOUDWATCH_NAMESPACE", "Shopping"),
	}
	if cfg.MaxPageLimit < 1 {
		return nil, fmt.Errorf("MAX_PAGE_LIMIT must be positive")
	}
	return cfg, nil
}
