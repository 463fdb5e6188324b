package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("POSTGRES_URL", "postgres://localhost/socialfolio")
	t.Setenv("MARKET_DATA_URL", "https://md.example.com/v1/")
	t.Setenv("JWT_SECRET", "s3cret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	for _, k := range []string{"PORT", "PRICE_UPDATE_INTERVAL", "MARKET_DATA_TIMEOUT", "REDIS_URL", "QUOTE_CACHE_TTL", "CORS_ORIGINS", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, time.Hour, cfg.PriceUpdateInterval)
	assert.Equal(t, 10*time.Second, cfg.MarketDataTimeout)
	assert.Equal(t, time.Minute, cfg.QuoteCacheTTL)
	assert.Equal(t, "https://md.example.com/v1", cfg.MarketDataURL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("PRICE_UPDATE_INTERVAL", "120")
	t.Setenv("QUOTE_CACHE_TTL", "not-a-number")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, http://localhost:5173")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2*time.Minute, cfg.PriceUpdateInterval)
	assert.Equal(t, time.Minute, cfg.QuoteCacheTTL)
	assert.Equal(t, []string{"https://app.example.com", "http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, logrus.WarnLevel, cfg.NewLogger().GetLevel())
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("POSTGRES_URL", "")
	t.Setenv("MARKET_DATA_URL", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_URL")
	assert.Contains(t, err.Error(), "MARKET_DATA_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
