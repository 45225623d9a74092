package config

import (
	"context"
	"fmt"
	"time"

	commoncfg "github.com/yashrajoria/shopping-backend/services/common/config"
	"github.com/yashrajoria/shopping-backend/services/common/database"
)

type Config struct {
	Environment       string
	LogLevel          string
	Port              string
	AWSRegion         string
	Postgres          database.PostgresConfig
	MaxPageSize       int
	RedisURL          string
	CacheTTL          time.Duration
	ListCacheTTL      time.Duration
	InventoryCacheTTL time.Duration
	AllowedOrigins    string
	CloudWatchEnabled bool
	CloudWatchGroup   string
	MetricsNamespace  string
}

func SecretID() string {
	return commoncfg.GetEnv("PRODUCTS_SECRET_ID", "products/credentials")
}

func CredentialKeys() []string {
	return database.PostgresKeys
}

// Load reads the service config. An empty REDIS_URL runs without a cache.
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
		Port:              commoncfg.GetEnv("PORT", "8084"),
		AWSRegion:         commoncfg.GetEnv("AWS_REGION", "us-east-1"),
		Postgres:          pg,
		MaxPageSize:       commoncfg.GetEnvInt("MAX_PAGE_SIZE", 100),
		RedisURL:          commoncfg.GetEnv("REDIS_URL", ""),
		CacheTTL:          commoncfg.GetEnvDuration("CACHE_TTL", 5*time.Minute),
		ListCacheTTL:      commoncfg.GetEnvDuration("LIST_CACHE_TTL", 2*time.Minute),
		InventoryCacheTTL: commoncfg.GetEnvDuration("INVENTORY_CACHE_TTL", 3*time.Minute),
		AllowedOrigins:    commoncfg.GetEnv("ALLOWED_ORIGINS", "*"),
		CloudWatchEnabled: commoncfg.GetEnvBool("CLOUDWATCH_ENABLED", false),
		CloudWatchGroup:   commoncfg.GetEnv("CLOUDWATCH_LOG_GROUP", "/shopping/services"),
		MetricsNamespace:  commoncfg.GetEnv("CLOUDWATCH_NAMESPACE", "Shopping"),
	}
	if cfg.MaxPageSize < 1 {
		return nil, fmt.Errorf("MAX_PAGE_SIZE must be positive")
	}
	for name, ttl := range map[string]time.Duration{
		"CACHE_TTL":           cfg.CacheTTL,
		"LIST_CACHE_TTL":      cfg.ListCacheTTL,
		"INVENTORY_CACHE_TTL": cfg.InventoryCacheTTL,
	} {
		if ttl <= 0 {
			return nil, fmt.Errorf("%s must be positive", name)
		}
	}
	return cfg, nil
}
