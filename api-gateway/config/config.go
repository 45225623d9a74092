package config

import (
	"fmt"
	"net/url"
	"time"

	commoncfg "github.com/yashrajoria/shopping-backend/services/common/config"
)

type Config struct {
	Environment       string
	LogLevel          string
	Port              string
	CartServiceURL    string
	OrderServiceURL   string
	UserServiceURL    string
	ProductServiceURL string
	UpstreamTimeout   time.Duration
	AllowedOrigins    []string
	RateLimit         int
	RateBurst         int
}

func Load() (*Config, error) {
	cfg := &Config{
		Environment:       commoncfg.Environment(),
		LogLevel:          commoncfg.GetEnv("LOG_LEVEL", "info"),
		Port:              commoncfg.GetEnv("PORT", "8080"),
		CartServiceURL:    commoncfg.GetEnv("CART_SERVICE_URL", "http://cart-service:8086"),
		OrderServiceURL:   commoncfg.GetEnv("ORDER_SERVICE_URL", "http://order-service:8083"),
		UserServiceURL:    commoncfg.GetEnv("USER_SERVICE_URL", "http://user-service:8085"),
		ProductServiceURL: commoncfg.GetEnv("PRODUCT_SERVICE_URL", "http://product-service:8084"),
		UpstreamTimeout:   commoncfg.GetEnvDuration("UPSTREAM_TIMEOUT", 30*time.Second),
		AllowedOrigins:    commoncfg.GetEnvList("ALLOWED_ORIGINS", "http://localhost:3000"),
		RateLimit:         commoncfg.GetEnvInt("RATE_LIMIT_PER_MINUTE", 300),
		RateBurst:         commoncfg.GetEnvInt("RATE_LIMIT_BURST", 50),
	}
	for name, raw := range map[string]string{
		"CART_SERVICE_URL":    cfg.CartServiceURL,
		"ORDER_SERVICE_URL":   cfg.OrderServiceURL,
		"USER_SERVICE_URL":    cfg.UserServiceURL,
		"PRODUCT_SERVICE_URL": cfg.ProductServiceURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}
	return cfg, nil
}
