package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	awspkg "github.com/yashrajoria/shopping-backend/pkg/aws"
	commoncfg "github.com/yashrajoria/shopping-backend/services/common/config"
	"github.com/yashrajoria/shopping-backend/services/common/database"
	"github.com/yashrajoria/shopping-backend/services/common/logger"
	"github.com/yashrajoria/shopping-backend/services/common/middleware"
	"github.com/yashrajoria/shopping-backend/services/common/validation"

	"github.com/yashrajoria/shopping-backend/services/order-service/config"
	"github.com/yashrajoria/shopping-backend/services/order-service/controllers"
	"github.com/yashrajoria/shopping-backend/services/order-service/models"
	"github.com/yashrajoria/shopping-backend/services/order-service/publisher"
	"github.com/yashrajoria/shopping-backend/services/order-service/repository"
	"github.com/yashrajoria/shopping-backend/services/order-service/routes"
	"github.com/yashrajoria/shopping-backend/services/order-service/services"
)

const serviceName = "order-service"

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
	resolver := commoncfg.NewResolver(env, config.SecretID(), secrets, config.CredentialKeys()...)
	cfg, err := config.Load(ctx, resolver)
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

	db, err := database.ConnectPostgres(cfg.Postgres, zl, 5, &models.Order{}, &models.OrderItem{})
	if err != nil {
		zl.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer database.Close(db) //nolint:errcheck

	var pub publisher.Publisher = publisher.Disabled{}
	switch cfg.EventTransport {
	case config.TransportKafka:
		kp := publisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kp.Close() //nolint:errcheck
		pub = kp
	default:
		if cfg.SNSTopicArn != "" {
			pub = publisher.NewSNSPublisher(awspkg.NewSNSClient(awsCfg), cfg.SNSTopicArn)
		} else {
			zl.Warn("SNS_TOPIC_ARN not set, order notifications disabled")
		}
	}

	metrics := awspkg.NewMetricsClient(awsCfg, cfg.MetricsNamespace, cfg.CloudWatchEnabled)
	repo := repository.NewGormOrderRepository(db)
	orderService := services.NewOrderService(repo, pub, metrics, cfg.PublishTimeout, zl)
	orderController := controllers.NewOrderController(orderService, cfg.MaxPageLimit)

	if err := validation.Register(); err != nil {
		zl.Fatal("Failed to register validators", zap.Error(err))
	}
	if cfg.Environment == commoncfg.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(zl),
		middleware.MetricsMiddleware(metrics, serviceName),
		middleware.SecurityHeaders(),
		middleware.CORSMiddleware(cfg.AllowedOrigins),
		middleware.Timeout(30*time.Second),
	)
	routes.RegisterHealthRoute(r, serviceName, repo)
	routes.RegisterOrderRoutes(r, orderController)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("Server failed", zap.Error(err))
		}
	}()

	zl.Info("Order service started",
		zap.String("port", cfg.Port),
		zap.String("transport", pub.Name()),
	)
	<-quit
	zl.Info("Shutting down order service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Fatal("Server forced to shutdown", zap.Error(err))
	}
	zl.Info("Server exited cleanly")
}
