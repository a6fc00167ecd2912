package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// refillScript keeps {tokens, ts} in a hash per client key. It answers with
// allowed (0/1), whole tokens left and milliseconds until the next token.
var refillScript = redis.NewScript(`
local perMs = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])

local t = redis.call("TIME")
local now = t[1] * 1000 + math.floor(t[2] / 1000)

local tokens = tonumber(redis.call("HGET", KEYS[1], "tokens"))
local ts = tonumber(redis.call("HGET", KEYS[1], "ts"))
if tokens == nil or ts == nil then
  tokens = burst
else
  tokens = math.min(burst, tokens + math.max(0, now - ts) * perMs)
end

local allowed = 0
if tokens >= 1 then
  allowed = 1
  tokens = tokens - 1
end

redis.call("HSET", KEYS[1], "tokens", tokens, "ts", now)
redis.call("PEXPIRE", KEYS[1], ARGV[3])

local wait = 0
if allowed == 0 then
  wait = math.ceil((1 - tokens) / perMs)
end
return {allowed, math.floor(tokens), wait}
`)

// RedisLimiter spreads a Policy over a shared Redis token bucket so every
// replica enforces the same budget.
type RedisLimiter struct {
	client redis.Scripter
	prefix string
	policy Policy
	perMs  float64
	ttl    time.Duration
}

func NewRedisLimiter(client *redis.Client, policy Policy) (*RedisLimiter, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if !policy.valid() {
		return nil, errors.New("rate limit policy must be positive")
	}
	return &RedisLimiter{
		client: client,
		prefix: "loja:ratelimit:",
		policy: policy,
		perMs:  float64(policy.Max) / float64(max(policy.Window.Milliseconds(), 1)),
		ttl:    bucketTTL(policy),
	}, nil
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return &Result{Allowed: false}, errors.New("rate limiter key is empty")
	}

	reply, err := refillScript.Run(ctx, l.client, []string{l.prefix + key},
		l.perMs, l.policy.Max, l.ttl.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return &Result{Allowed: false}, err
	}
	if len(reply) != 3 {
		return &Result{Allowed: false}, fmt.Errorf("rate limit script: unexpected reply of %d values", len(reply))
	}

	retryAfter := time.Duration(reply[2]) * time.Millisecond
	return &Result{
		Allowed:    reply[0] == 1,
		Limit:      l.policy.Max,
		Remaining:  int(reply[1]),
		ResetTime:  time.Now().Add(retryAfter),
		RetryAfter: retryAfter,
	}, nil
}

// bucketTTL keeps an idle bucket around for two full refills.
func bucketTTL(p Policy) time.Duration {
	return time.Duration(math.Max(1, math.Ceil(2*p.Window.Seconds()))) * time.Second
}
