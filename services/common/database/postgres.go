package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yashrajoria/shopping-backend/services/common/config"
)

// Keys a Postgres-backed service resolves through its CredentialResolver.
var PostgresKeys = []string{
	"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
	"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_SSLMODE", "POSTGRES_TIMEZONE",
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	TimeZone string
}

// PostgresConfigFrom builds a PostgresConfig from resolved credentials. User,
// password and database name are required.
func PostgresConfigFrom(creds config.Credentials) (PostgresConfig, error) {
	if err := creds.Require("POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB"); err != nil {
		return PostgresConfig{}, err
	}
	return PostgresConfig{
		Host:     creds.GetOr("POSTGRES_HOST", "localhost"),
		Port:     creds.GetOr("POSTGRES_PORT", "5432"),
		User:     creds.Get("POSTGRES_USER"),
		Password: creds.Get("POSTGRES_PASSWORD"),
		DBName:   creds.Get("POSTGRES_DB"),
		SSLMode:  creds.GetOr("POSTGRES_SSLMODE", "disable"),
		TimeZone: creds.GetOr("POSTGRES_TIMEZONE", "UTC"),
	}, nil
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		p.Host, p.User, p.Password, p.DBName, p.Port, p.SSLMode, p.TimeZone,
	)
}

// ConnectPostgres opens the pool, retrying with a growing delay, then
// auto-migrates the given models.
func ConnectPostgres(cfg PostgresConfig, log *zap.Logger, attempts int, models ...interface{}) (*gorm.DB, error) {
	if attempts < 1 {
		attempts = 1
	}

	var db *gorm.DB
	var err error
	for i := 0; i < attempts; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
			Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
			TranslateError: true,
		})
		if err == nil {
			break
		}
		log.Warn("DB connection failed, retrying",
			zap.Int("attempt", i+1),
			zap.Error(err),
		)
		time.Sleep(time.Duration(i+1) * 2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL after %d attempts: %w", attempts, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	log.Info("Connected to PostgreSQL", zap.String("host", cfg.Host), zap.String("db", cfg.DBName))

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("AutoMigrate failed: %w", err)
		}
	}
	return db, nil
}

// Ping checks the underlying connection, used by /health.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}
