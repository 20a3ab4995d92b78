package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waterfire-source/Mycalinks-sub015/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "individual", cfg.Ledger.DefaultKeepRule)
	assert.Equal(t, "oldest_arrival_first", cfg.Ledger.DefaultAllocationOrder)
	assert.Equal(t, 6*time.Minute, cfg.Ledger.TxTimeout)
	assert.Equal(t, 30*time.Second, cfg.Ledger.LockTTL)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, int32(25), cfg.DB.MaxConns)
	assert.Equal(t, 30*time.Second, cfg.DB.LockTimeout)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("LEDGER_KEEP_RULE", "average")
	t.Setenv("LEDGER_TX_TIMEOUT", "90s")
	t.Setenv("LEDGER_TAX_RATE", "0.08")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_POLICY_TTL", "1m")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_LOCK_TIMEOUT", "0s")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "average", cfg.Ledger.DefaultKeepRule)
	assert.Equal(t, 90*time.Second, cfg.Ledger.TxTimeout)
	assert.InDelta(t, 0.08, cfg.Ledger.TaxRate, 1e-9)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, time.Minute, cfg.Redis.PolicyTTL)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Zero(t, cfg.DB.LockTimeout)
}

func TestLoad_RejectsNegativeTax(t *testing.T) {
	t.Setenv("LEDGER_TAX_RATE", "-1")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapesPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss/word", DBName: "ledger", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss%2Fword@db:5432/ledger?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://other"
	assert.Equal(t, "postgres://other", c.ConnectionString())
}
