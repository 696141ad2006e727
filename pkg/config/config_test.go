package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "read_committed", cfg.Sales.TxIsolation)
	assert.Equal(t, 5*time.Second, cfg.Sales.TxTimeout)
	assert.Equal(t, "sales", cfg.Sales.IncomeCategory)
	assert.Equal(t, "CO", cfg.Sales.PhoneRegion)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("SALES_TX_TIMEOUT", "750ms")
	t.Setenv("SALES_TX_ISOLATION", "serializable")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("IDEMPOTENCY_TTL", "60")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 750*time.Millisecond, cfg.Sales.TxTimeout)
	assert.Equal(t, "serializable", cfg.Sales.TxIsolation)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, time.Minute, cfg.Redis.IdempotencyTTL)
}

func TestLoad_RechazaValoresInvalidos(t *testing.T) {
	t.Setenv("SALES_TX_ISOLATION", "chaos")
	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "tienda", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/tienda?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
