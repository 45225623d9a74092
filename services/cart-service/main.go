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
	ddbpkg "github.com/yashrajoria/shopping-backend/pkg/dynamodb"
	commoncfg "github.com/yashrajoria/shopping-backend/services/common/config"
	"github.com/yashrajoria/shopping-backend/services/common/logger"
	"github.com/yashrajoria/shopping-backend/services/common/middleware"
	"github.com/yashrajoria/shopping-backend/services/common/validation"

	"github.com/yashrajoria/shopping-backend/services/cart-service/config"
	"github.com/yashrajoria/shopping-backend/services/cart-service/controllers"
	"github.com/yashrajoria/shopping-backend/services/cart-service/repository"
	"github.com/yashrajoria/shopping-backend/services/cart-service/routes"
	"github.com/yashrajoria/shopping-backend/services/cart-service/services"
)

const serviceName = "cart-service"

func main() {
	commoncfg.LoadDotEnv(commoncfg.Environment(), nil)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	awsCfg, err := awspkg.LoadAWSConfig(ctx, awspkg.WithRegion(cfg.AWSRegion))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
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

	var repo repository.CartRepository
	switch cfg.Store {
	case config.StoreRedis:
		client, err := repository.NewRedisClient(ctx, cfg.RedisURL, zl)
		if err != nil {
			zl.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer client.Close() //nolint:errcheck
		repo = repository.NewRedisRepository(client, cfg.CartTTLDays)
	default:
		repo = repository.NewDynamoRepository(
			ddbpkg.NewClientFromConfig(awsCfg, cfg.DynamoDBEndpoint), cfg.TableName, cfg.CartTTLDays)
	}

	metrics := awspkg.NewMetricsClient(awsCfg, cfg.MetricsNamespace, cfg.CloudWatchEnabled)
	cartController := controllers.NewCartController(services.NewCartService(repo, zl))

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

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": serviceName, "store": repo.Name()})
	})
	routes.RegisterCartRoutes(r, cartController)

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

	zl.Info("Cart service started", zap.String("port", cfg.Port), zap.String("store", repo.Name()))
	<-quit
	zl.Info("Shutting down cart service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Fatal("Server forced to shutdown", zap.Error(err))
	}
	zl.Info("Server exited cleanly")
}

