package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yashrajoria/shopping-backend/services/common/config"
)

func TestPostgresConfigFrom_Defaults(t *testing.T) {
	cfg, err := PostgresConfigFrom(config.Credentials{
		"POSTGRES_USER":     "orders",
		"POSTGRES_PASSWORD": "pw",
		"POSTGRES_DB":       "orders",
	})
	require.NoError(t, err)
	assert.Equal(t, "host=localhost user=orders password=pw dbname=orders port=5432 sslmode=disable TimeZone=UTC", cfg.DSN())
}

func TestPostgresConfigFrom_MissingRequired(t *testing.T) {
	_, err := PostgresConfigFrom(config.Credentials{"POSTGRES_USER": "orders"})
	assert.ErrorContains(t, err, "POSTGRES_PASSWORD")
}

func TestPing(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	assert.NoError(t, Ping(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
