package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

// Environment returns ENVIRONMENT normalized to dev or prod.
func Environment() string {
	switch strings.ToLower(os.Getenv("ENVIRONMENT")) {
	case "prod", "production":
		return EnvProd
	default:
		return EnvDev
	}
}

// LoadDotEnv reads .env into the process environment outside prod. A missing
// file is not an error.
func LoadDotEnv(env string, log *zap.Logger) {
	if env == EnvProd {
		return
	}
	if err := godotenv.Load(); err != nil && log != nil {
		log.Debug("No .env file found, using system environment variables")
	}
}

func GetEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func GetEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func GetEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

// GetEnvDuration accepts Go durations ("5s") or a bare number of seconds.
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if n, err := strconv.Atoi(val); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}

// GetEnvList splits a comma separated value, dropping empty entries.
func GetEnvList(key, fallback string) []string {
	var out []string
	for _, s := range strings.Split(GetEnv(key, fallback), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
