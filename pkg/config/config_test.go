package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.App.StorageDriver)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.False(t, cfg.Stock.AllowNegative)
	assert.False(t, cfg.Bootstrap.Enabled())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "POSTGRES")
	t.Setenv("STOCK_ALLOW_NEGATIVE", "true")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_PORT", "no-numero")
	t.Setenv("BOOTSTRAP_ADMIN_EMAIL", "admin@planta.co")
	t.Setenv("BOOTSTRAP_ADMIN_PASSWORD", "secreto123")
	t.Setenv("BOOTSTRAP_COMPANY_ID", "c1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoragePostgres, cfg.App.StorageDriver)
	assert.True(t, cfg.Stock.AllowNegative)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.True(t, cfg.Bootstrap.Enabled())
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")

	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w", DBName: "manufactura", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw@db:5432/manufactura?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
