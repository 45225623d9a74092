package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	commoncfg "github.com/yashrajoria/shopping-backend/services/common/config"
	"github.com/yashrajoria/shopping-backend/services/common/logger"
	"github.com/yashrajoria/shopping-backend/services/common/middleware"

	"github.com/yashrajoria/shopping-backend/api-gateway/config"
	"github.com/yashrajoria/shopping-backend/api-gateway/routes"
	"github.com/yashrajoria/shopping-backend/api-gateway/utils"
)

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			// Wildcard origins cannot be combined with credentials.
			c.AllowAllOrigins = true
			c.AllowCredentials = false
			return c
		}
	}
	c.AllowOrigins = origins
	return c
}

func main() {
	commoncfg.LoadDotEnv(commoncfg.Environment(), nil)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	zl, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	zl.Info("Starting API Gateway...")

	if cfg.Environment == commoncfg.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(zl),
		middleware.SecurityHeaders(),
		middleware.RateLimitMiddleware(cfg.RateLimit, cfg.RateBurst),
		cors.New(corsConfig(cfg.AllowedOrigins)),
	)

	routes.RegisterAllRoutes(r, utils.NewForwarder(cfg.UpstreamTimeout, zl), cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	zl.Info("API Gateway listening", zap.String("port", cfg.Port),
		zap.String("cart", cfg.CartServiceURL),
		zap.String("orders", cfg.OrderServiceURL),
		zap.String("users", cfg.UserServiceURL),
		zap.String("products", cfg.ProductServiceURL),
	)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Fatal("Server forced to shutdown", zap.Error(err))
	}
	zl.Info("API Gateway stopped")
}
