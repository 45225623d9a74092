package config

import (
	"fmt"
	"strings"

	commoncfg "github.com/yashrajoria/shopping-backend/services/common/config"
)

const (
	StoreDynamoDB = "dynamodb"
	StoreRedis    = "redis"
)

type Config struct {
	Environment       string
	LogLevel          string
	Port              string
	AWSRegion         string
	Store             string
	TableName         string
	DynamoDBEndpoint  string
	RedisURL          string
	CartTTLDays       int
	AllowedOrigins    string
	CloudWatchEnabled bool
	CloudWatchGroup   string
	MetricsNamespace  string
}

func Load() (*Config, error) {
	env := commoncfg.Environment()
	cfg := &Config{
		Environment:       env,
		LogLevel:          commoncfg.GetEnv("LOG_LEVEL", "info"),
		Port:              commoncfg.GetEnv("PORT", "8086"),
		AWSRegion:         commoncfg.GetEnv("AWS_REGION", "us-east-1"),
		Store:             strings.ToLower(commoncfg.GetEnv("CART_STORE", StoreDynamoDB)),
		TableName:         commoncfg.GetEnv("DYNAMODB_TABLE_NAME", "dev-carts"),
		RedisURL:          commoncfg.GetEnv("REDIS_URL", "redis://localhost:6379"),
		CartTTLDays:       commoncfg.GetEnvInt("CART_TTL_DAYS", 30),
		AllowedOrigins:    commoncfg.GetEnv("ALLOWED_ORIGINS", "*"),
		CloudWatchEnabled: commoncfg.GetEnvBool("CLOUDWATCH_ENABLED", false),
		CloudWatchGroup:   commoncfg.GetEnv("CLOUDWATCH_LOG_GROUP", "/shopping/services"),
		MetricsNamespace:  commoncfg.GetEnv("CLOUDWATCH_NAMESPACE", "Shopping"),
	}
	// DynamoDB Local is only honoured outside prod.
	if env == commoncfg.EnvDev {
		cfg.DynamoDBEndpoint = commoncfg.GetEnv("DYNAMODB_ENDPOINT_URL", "")
	}

	if cfg.Store != StoreDynamoDB && cfg.Store != StoreRedis {
		return nil, fmt.Errorf("CART_STORE must be %q or %q, got %q", StoreDynamoDB, StoreRedis, cfg.Store)
	}
	if cfg.CartTTLDays <= 0 {
		return nil, fmt.Errorf("CART_TTL_DAYS must be positive")
	}
	return cfg, nil
}
