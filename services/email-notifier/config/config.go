package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	commoncfg "github.com/yashrajoria/shopping-backend/services/common/config"

	"github.com/yashrajoria/shopping-backend/services/email-notifier/sender"
)

const (
	ProviderSES  = "ses"
	ProviderSMTP = "smtp"

	ModeLambda = "lambda"
	ModeSQS    = "sqs"
	ModeKafka  = "kafka"
)

type Config struct {
	Environment       string
	LogLevel          string
	Provider          string
	SenderEmail       string
	SESRegion         string
	SMTP              sender.SMTPConfig
	RunMode           string
	SQSQueueURL       string
	KafkaBrokers      []string
	KafkaTopic        string
	KafkaGroupID      string
	CloudWatchEnabled bool
	CloudWatchGroup   string
	MetricsNamespace  string
}

func SecretID() string {
	return commoncfg.GetEnv("EMAIL_SECRET_ID", "email-notifier/credentials")
}

func CredentialKeys() []string {
	return []string{"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS"}
}

// defaultRunMode picks lambda inside the Lambda runtime and the SQS poller
// everywhere else.
func defaultRunMode() string {
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		return ModeLambda
	}
	return ModeSQS
}

func Load(ctx context.Context, resolver commoncfg.CredentialResolver) (*Config, error) {
	env := commoncfg.Environment()
	creds, err := resolver.Resolve(ctx, env)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment: env,
		LogLevel:    commoncfg.GetEnv("LOG_LEVEL", "info"),
		Provider:    strings.ToLower(commoncfg.GetEnv("EMAIL_PROVIDER", ProviderSES)),
		SenderEmail: commoncfg.GetEnv("SES_SENDER_EMAIL", "noreply@example.com"),
		SESRegion:   commoncfg.GetEnv("SES_REGION", commoncfg.GetEnv("AWS_REGION", "us-east-1")),
		SMTP: sender.SMTPConfig{
			Host:     creds.Get("SMTP_HOST"),
			Port:     creds.GetOr("SMTP_PORT", "587"),
			Username: creds.Get("SMTP_USER"),
			Password: creds.Get("SMTP_PASS"),
		},
		RunMode:           strings.ToLower(commoncfg.GetEnv("RUN_MODE", defaultRunMode())),
		SQSQueueURL:       commoncfg.GetEnv("SQS_QUEUE_URL", ""),
		KafkaBrokers:      commoncfg.GetEnvList("KAFKA_BROKERS", ""),
		KafkaTopic:        commoncfg.GetEnv("KAFKA_TOPIC", "order-events"),
		KafkaGroupID:      commoncfg.GetEnv("KAFKA_GROUP_ID", "email-notifier"),
		CloudWatchEnabled: commoncfg.GetEnvBool("CLOUDWATCH_ENABLED", false),
		CloudWatchGroup:   commoncfg.GetEnv("CLOUDWATCH_LOG_GROUP", "/shopping/services"),
		MetricsNamespace:  commoncfg.GetEnv("CLOUDWATCH_NAMESPACE", "Shopping"),
	}

	switch cfg.Provider {
	case ProviderSES:
	case ProviderSMTP:
		if err := cfg.SMTP.Validate(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("EMAIL_PROVIDER must be %q or %q, got %q", ProviderSES, ProviderSMTP, cfg.Provider)
	}

	switch cfg.RunMode {
	case ModeLambda:
	case ModeSQS:
		if cfg.SQSQueueURL == "" {
			return nil, fmt.Errorf("SQS_QUEUE_URL is required when RUN_MODE=sqs")
		}
	case ModeKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, fmt.Errorf("KAFKA_BROKERS is required when RUN_MODE=kafka")
		}
	default:
		return nil, fmt.Errorf("RUN_MODE must be one of lambda, sqs, kafka, got %q", cfg.RunMode)
	}
	return cfg, nil
}
