package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_TYPE", "")
	t.Setenv("RATE_LIMIT_WINDOW", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("REDIS_ADDR", "")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.DB.Type)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 100, cfg.RateLimit.MaxRequests)
	assert.Equal(t, time.Hour, cfg.AuthTokenTTL)
	assert.False(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.Redis.Enabled())
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("RATE_LIMIT_WINDOW", "1m")
	t.Setenv("RATE_LIMIT_ENABLED", "off")
	t.Setenv("AUTH_TOKEN_TTL", "not-a-duration")
	t.Setenv("ENVIRONMENT", "Production")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.1")

	cfg := Load()

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, time.Hour, cfg.AuthTokenTTL)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"10.0.0.0/8", "172.16.0.1"}, cfg.TrustedProxies)
}

func TestLoyaltyConfigDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	holder, err := NewLoyaltyConfigHolder()
	require.NoError(t, err)

	cfg := holder.Get()
	assert.True(t, cfg.AmountPerPoint.Equal(decimal.NewFromInt(50)))
	assert.True(t, cfg.PointValue.Equal(decimal.NewFromInt(1)))
}

func TestValidateLoyaltyConfig(t *testing.T) {
	err := validateLoyaltyConfig(LoyaltyConfig{AmountPerPoint: decimal.Zero, PointValue: decimal.NewFromInt(1)})
	assert.Error(t, err)

	err = validateLoyaltyConfig(DefaultLoyaltyConfig())
	assert.NoError(t, err)
}
