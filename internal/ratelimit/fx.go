package ratelimit

import (
	"github.com/brjatoba92/loja-materiais-utilidades/internal/config"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("rate.limit",
	fx.Provide(NewLimiter),
)

// NewLimiter returns nil when rate limiting is disabled.
func NewLimiter(cfg config.Config, client *redis.Client, log *zap.Logger) (Limiter, error) {
	if !cfg.RateLimit.Enabled {
		log.Info("rate limiting disabled")
		return nil, nil
	}

	policy := Policy{Max: cfg.RateLimit.MaxRequests, Window: cfg.RateLimit.Window}
	if client != nil {
		log.Info("rate limiting backed by redis",
			zap.Int("max", policy.Max),
			zap.Duration("window", policy.Window),
		)
		return NewRedisLimiter(client, policy)
	}

	log.Info("rate limiting backed by memory",
		zap.Int("max", policy.Max),
		zap.Duration("window", policy.Window),
	)
	return NewMemoryLimiter(policy, cfg.RateLimit.MaxKeys, nil)
}
