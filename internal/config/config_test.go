package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	cfg := Config{
		DBUser:     "broker",
		DBPassword: "p@ss",
		DBHost:     "db.local",
		DBPort:     3307,
		DBName:     "broker_app",
		ParseTime:  true,
	}

	parsed, err := mysql.ParseDSN(cfg.DSN())
	require.NoError(t, err)

	assert.Equal(t, "broker", parsed.User)
	assert.Equal(t, "p@ss", parsed.Passwd)
	assert.Equal(t, "tcp", parsed.Net)
	assert.Equal(t, "db.local:3307", parsed.Addr)
	assert.Equal(t, "broker_app", parsed.DBName)
	assert.True(t, parsed.ParseTime)
}

func TestMustConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	err := os.WriteFile(path, []byte(`
env: local
http_server:
  address: "0.0.0.0:9000"
  timeout: 2s
db_user: root
db_name: broker
buying_price_list: "Transport Buying"
allowed_origins:
  - "https://erp.example.com"
`), 0o600)
	require.NoError(t, err)

	t.Setenv("CONFIG_PATH", path)

	cfg := MustConfig()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "0.0.0.0:9000", cfg.Address)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, 60*time.Second, cfg.IdleTimeout)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, 3306, cfg.DBPort)
	assert.Equal(t, "Transport Buying", cfg.BuyingPriceList)
	assert.Equal(t, []string{"https://erp.example.com"}, cfg.AllowedOrigins)
}

func TestMustConfig_EnvOnly(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DB_USER", "svc")
	t.Setenv("DB_NAME", "broker")
	t.Setenv("ADMIN_LOGIN", "admin")

	cfg := MustConfig()

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "svc", cfg.DBUser)
	assert.Equal(t, "admin", cfg.AdminLogin)
	assert.Equal(t, "Standard Buying", cfg.BuyingPriceList)
}
