package ratelimit

import (
	"context"
	"time"
)

// Result describes a single admission decision.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter admits or rejects a request for key.
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}

// Policy is a budget of Max requests per Window.
type Policy struct {
	Max    int
	Window time.Duration
}

func (p Policy) valid() bool {
	return p.Max > 0 && p.Window > 0
}
