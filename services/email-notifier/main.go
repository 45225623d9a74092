package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	awspkg "github.com/yashrajoria/shopping-backend/pkg/aws"
	commoncfg "github.com/yashrajoria/shopping-backend/services/common/config"
	"github.com/yashrajoria/shopping-backend/services/common/logger"

	"github.com/yashrajoria/shopping-backend/services/email-notifier/config"
	"github.com/yashrajoria/shopping-backend/services/email-notifier/consumer"
	"github.com/yashrajoria/shopping-backend/services/email-notifier/notifier"
	"github.com/yashrajoria/shopping-backend/services/email-notifier/sender"
	"github.com/yashrajoria/shopping-backend/services/email-notifier/templates"
)

const serviceName = "email-notifier"

func main() {
	env := commoncfg.Environment()
	commoncfg.LoadDotEnv(env, nil)

	ctx := context.Background()
	awsCfg, err := awspkg.LoadAWSConfig(ctx, awspkg.WithRegion(commoncfg.GetEnv("AWS_REGION", "us-east-1")))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}

	var secrets commoncfg.SecretGetter
	if env == commoncfg.EnvProd {
		secrets = awspkg.NewSecretsClient(awsCfg)
	}
	cfg, err := config.Load(ctx, commoncfg.NewResolver(env, config.SecretID(), secrets, config.CredentialKeys()...))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var sinks []io.Writer
	if cfg.CloudWatchEnabled {
		cw, err := awspkg.NewCloudWatchLogSink(ctx, awsCfg, serviceName, cfg.CloudWatchGroup)
		if err != nil {
			log.Fatalf("Failed to init CloudWatch Logs: %v", err)
		}
		sinks = append(sinks, cw)
	}
	zl, err := logger.New(cfg.Environment, cfg.LogLevel, sinks...)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	var emailSender sender.EmailSender
	switch cfg.Provider {
	case config.ProviderSMTP:
		s, err := sender.NewSMTPSender(cfg.SMTP)
		if err != nil {
			zl.Fatal("Failed to init SMTP sender", zap.Error(err))
		}
		emailSender = s
	default:
		sesCfg, err := awspkg.LoadAWSConfig(ctx, awspkg.WithRegion(cfg.SESRegion))
		if err != nil {
			zl.Fatal("Failed to load SES config", zap.Error(err))
		}
		emailSender = sender.NewSESSender(awspkg.NewSESClient(sesCfg))
	}

	renderer, err := notifier.NewRenderer(templates.FS)
	if err != nil {
		zl.Fatal("Failed to parse email templates", zap.Error(err))
	}
	metrics := awspkg.NewMetricsClient(awsCfg, cfg.MetricsNamespace, cfg.CloudWatchEnabled)
	processor := notifier.NewProcessor(renderer, emailSender, cfg.SenderEmail, metrics, zl)

	zl.Info("Email notifier starting",
		zap.String("mode", cfg.RunMode),
		zap.String("provider", emailSender.Name()),
	)

	if cfg.RunMode == config.ModeLambda {
		lambda.Start(consumer.LambdaHandler(processor))
		return
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.RunMode {
	case config.ModeKafka:
		kc := consumer.NewKafkaConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID, processor, zl)
		defer kc.Close() //nolint:errcheck
		if err := kc.Start(runCtx); err != nil {
			zl.Error("Kafka consumer stopped", zap.Error(err))
		}
	default:
		sqsConsumer := awspkg.NewSQSConsumer(awsCfg, cfg.SQSQueueURL, zl)
		if err := sqsConsumer.StartPolling(runCtx, consumer.SQSBatchHandler(processor)); err != nil && !errors.Is(err, context.Canceled) {
			zl.Error("SQS consumer stopped", zap.Error(err))
		}
	}
	zl.Info("Email notifier stopped")
}
