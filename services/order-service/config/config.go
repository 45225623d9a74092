package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	commoncfg "github.com/yashrajoria/shopping-backend/services/common/config"
	"github.com/yashrajoria/shopping-backend/services/common/database"
)

const (
	TransportSNS   = "sns"
	TransportKafka = "kafka"
)

type Config struct {
	Environment       string
	LogLevel          string
	Port              string
	AWSRegion         string
	Postgres          database.PostgresConfig
	EventTransport    string
	SNSTopicArn       string
	KafkaBrokers      []string
	KafkaTopic        string
	PublishTimeout    time.Duration
	MaxPageLimit      int
	AllowedOrigins    string
	CloudWatchEnabled bool
	CloudWatchGroup   string
	MetricsNamespace  string
}

// SecretID names the Secrets Manager entry holding the production credentials.
func SecretID() string {
	return commoncfg.GetEnv("ORDERS_SECRET_ID", "orders/credentials")
}

// CredentialKeys are resolved through the CredentialResolver rather than read
// directly, so production can serve them from Secrets Manager.
func CredentialKeys() []string {
	return append(append([]string{}, database.PostgresKeys...), "SNS_TOPIC_ARN")
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
		Port:              commoncfg.GetEnv("PORT", "8083"),
		AWSRegion:         commoncfg.GetEnv("AWS_REGION", "us-east-1"),
		Postgres:          pg,
		EventTransport:    strings.ToLower(commoncfg.GetEnv("EVENT_TRANSPORT", TransportSNS)),
		SNSTopicArn:       creds.Get("SNS_TOPIC_ARN"),
		KafkaBrokers:      commoncfg.GetEnvList("KAFKA_BROKERS", ""),
		KafkaTopic:        commoncfg.GetEnv("KAFKA_TOPIC", "order-events"),
		PublishTimeout:    commoncfg.GetEnvDuration("PUBLISH_TIMEOUT", 5*time.Second),
		MaxPageLimit:      commoncfg.GetEnvInt("MAX_PAGE_LIMIT", 100),
		AllowedOrigins:    commoncfg.GetEnv("ALLOWED_ORIGINS", "*"),
		CloudWatchEnabled: commoncfg.GetEnvBool("CLOUDWATCH_ENABLED", false),
		CloudWatchGroup:   commoncfg.GetEnv("CLOUDWATCH_LOG_GROUP", "/shopping/services"),
		MetricsNamespace:  commoncfg.GetEnv("CLOUDWATCH_NAMESPACE", "Shopping"),
	}

	switch cfg.EventTransport {
	case TransportSNS:
	case TransportKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, fmt.Errorf("KAFKA_BROKERS is required when EVENT_TRANSPORT=kafka")
		}
	default:
		return nil, fmt.Errorf("EVENT_TRANSPORT must be %q or %q, got %q", TransportSNS, TransportKafka, cfg.EventTransport)
	}
	if cfg.MaxPageLimit < 1 {
		return nil, fmt.Errorf("MAX_PAGE_LIMIT must be positive")
	}
	if cfg.PublishTimeout <= 0 {
		return nil, fmt.Errorf("PUBLISH_TIMEOUT must be positive")
	}
	return cfg, nil
}
