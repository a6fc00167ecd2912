package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/brjatoba92/loja-materiais-utilidades/internal/config"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/order/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	orderKeyPrefix  = "loja:order:"
	defaultCacheTTL = 5 * time.Minute
)

// RedisOrderCache stores order details as JSON under orderKeyPrefix+id.
type RedisOrderCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewOrderCache falls back to a no-op cache when Redis is not configured.
func NewOrderCache(client *redis.Client, cfg config.Config, log *zap.Logger) domain.Cache {
	if client == nil {
		return NoopOrderCache{}
	}
	return NewRedisOrderCache(client, cfg.Redis.OrderCacheTTL, log)
}

func NewRedisOrderCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisOrderCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisOrderCache{
		client: client,
		ttl:    ttl,
		log:    log.Named("order.cache"),
	}
}

func (c *RedisOrderCache) Get(ctx context.Context, id string) (*domain.OrderDetailResponse, error) {
	data, err := c.client.Get(ctx, orderKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		c.log.Debug("cache miss", zap.String("order_id", id))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var order domain.OrderDetailResponse
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, err
	}
	c.log.Debug("cache hit", zap.String("order_id", id))
	return &order, nil
}

func (c *RedisOrderCache) Set(ctx context.Context, order *domain.OrderDetailResponse) error {
	if order == nil {
		return nil
	}
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, orderKeyPrefix+order.ID, data, c.ttl).Err()
}

func (c *RedisOrderCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, orderKeyPrefix+id).Err()
}

type NoopOrderCache struct{}

func (NoopOrderCache) Get(context.Context, string) (*domain.OrderDetailResponse, error) {
	return nil, nil
}

func (NoopOrderCache) Set(context.Context, *domain.OrderDetailResponse) error { return nil }

func (NoopOrderCache) Delete(context.Context, string) error { return nil }
