package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/brjatoba92/loja-materiais-utilidades/internal/cache"
)

type window struct {
	start time.Time
	count int
}

// MemoryLimiter is a per-process fixed-window counter. Windows are kept in
// a bounded TTL cache so idle clients are forgotten.
type MemoryLimiter struct {
	mu      sync.Mutex
	policy  Policy
	windows *cache.TTLCache[string, *window]
	now     func() time.Time
}

func NewMemoryLimiter(policy Policy, maxKeys int, now func() time.Time) (*MemoryLimiter, error) {
	if !policy.valid() {
		return nil, errors.New("rate limit policy must be positive")
	}
	if now == nil {
		now = time.Now
	}
	return &MemoryLimiter{
		policy:  policy,
		windows: cache.NewTTLCache[string, *window](cache.WithMaxEntries(maxKeys), cache.WithNow(now)),
		now:     now,
	}, nil
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (*Result, error) {
	if key == "" {
		return &Result{Allowed: false}, errors.New("rate limiter key is empty")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows.Get(key)
	if !ok {
		w = &window{start: now}
		l.windows.Set(key, w, l.policy.Window)
	}

	reset := w.start.Add(l.policy.Window)
	if w.count >= l.policy.Max {
		return &Result{
			Allowed:    false,
			Limit:      l.policy.Max,
			Remaining:  0,
			ResetTime:  reset,
			RetryAfter: reset.Sub(now),
		}, nil
	}

	w.count++
	return &Result{
		Allowed:   true,
		Limit:     l.policy.Max,
		Remaining: l.policy.Max - w.count,
		ResetTime: reset,
	}, nil
}
