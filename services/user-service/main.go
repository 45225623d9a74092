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

	"github.com/yashrajoria/shopping-backend/services/user-service/config"
	"github.com/yashrajoria/shopping-backend/services/user-service/controllers"
	"github.com/yashrajoria/shopping-backend/services/user-service/models"
	"github.com/yashrajoria/shopping-backend/services/user-service/repository"
	"github.com/yashrajoria/shopping-backend/services/user-service/routes"
	"github.com/yashrajoria/shopping-backend/services/user-service/services"
)

const serviceName = "user-service"

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

	db, err := database.ConnectPostgres(cfg.Postgres, zl, 5, &models.User{})
	if err != nil {
		zl.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer database.Close(db) //nolint:errcheck

	images := services.ImageStore{Bucket: cfg.ImageBucket}
	if cfg.ImageBucket != "" {
		images.Presigner = awspkg.NewS3Presigner(awsCfg)
		images.Uploader = awspkg.NewS3Uploader(awsCfg)
	} else {
		zl.Info("USER_IMAGE_BUCKET not set, image uploads disabled")
	}

	repo := repository.NewUserRepository(db)
	userService := services.NewUserService(repo, services.NewPasswordHasher(cfg.BcryptCost), images, zl)
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
	routes.RegisterHealthRoute(r, serviceName, repo)
	routes.RegisterUserRoutes(r, controllers.NewUserController(userService, cfg.MaxPageLimit))

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

	zl.Info("User service started", zap.String("port", cfg.Port))
	<-quit
	zl.Info("Shutting down user service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Fatal("Server forced to shutdown", zap.Error(err))
	}
	zl.Info("Server exited cleanly")
}
