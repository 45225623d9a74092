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

	"github.com/yashrajoria/shopping-backend/services/product-service/cache"
	"github.com/yashrajoria/shopping-backend/services/product-service/config"
	"github.com/yashrajoria/shopping-backend/services/product-service/controllers"
	"github.com/yashrajoria/shopping-backend/services/product-service/models"
	"github.com/yashrajoria/shopping-backend/services/product-service/repository"
	"github.com/yashrajoria/shopping-backend/services/product-service/routes"
	"github.com/yashrajoria/shopping-backend/services/product-service/services"
)

const serviceName = "product-service"

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

	db, err := database.ConnectPostgres(cfg.Postgres, zl, 5, &models.Product{}, &models.ProductInventory{})
	if err != nil {
		zl.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer database.Close(db) //nolint:errcheck

	var productCache *cache.Cache
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL, zl)
		if err != nil {
			// The cache is optional; serve from Postgres alone.
			zl.Warn("Redis unavailable, running without cache", zap.Error(err))
		} else {
			defer client.Close() //nolint:errcheck
			productCache = cache.New(client, cache.TTLs{
				Product:   cfg.CacheTTL,
				List:      cfg.ListCacheTTL,
				Inventory: cfg.InventoryCacheTTL,
			}, zl)
		}
	} else {
		zl.Info("REDIS_URL not set, running without cache")
	}

	products := repository.NewProductRepository(db)
	inventory := repository.NewInventoryRepository(db)
	productController := controllers.NewProductController(services.NewProductService(products, productCache, zl), cfg.MaxPageSize)
	inventoryController := controllers.NewInventoryController(services.NewInventoryService(products, inventory, productCache, zl))
	metrics := awspkg.NewMetricsClient(awsCfg, cfg.MetricsNamespace, cfg.CloudWatchEnabled)

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
	routes.RegisterHealthRoute(r, serviceName, products, productCache != nil)
	routes.RegisterProductRoutes(r, productController, inventoryController)

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

	zl.Info("Product service started", zap.String("port", cfg.Port), zap.Bool("cache", productCache != nil))
	<-quit
	zl.Info("Shutting down product service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Fatal("Server forced to shutdown", zap.Error(err))
	}
	zl.Info("Server exited cleanly")
}
