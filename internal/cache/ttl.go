package cache

import (
	"sync"
	"time"
)

// Cache is a small key/value store with per-entry expiry.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V, ttl time.Duration)
	Delete(key K)
	Len() int
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a mutex-guarded map. Expired entries are dropped lazily on
// read and swept when the map grows past maxEntries.
type TTLCache[K comparable, V any] struct {
	mu         sync.Mutex
	items      map[K]entry[V]
	maxEntries int
	now        func() time.Time
}

type Option func(*options)

type options struct {
	maxEntries int
	now        func() time.Time
}

// WithMaxEntries bounds the map; when full after a sweep the oldest-expiring entry is evicted.
func WithMaxEntries(n int) Option {
	return func(o *options) { o.maxEntries = n }
}

// WithNow overrides the time source.
func WithNow(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func NewTTLCache[K comparable, V any](opts ...Option) *TTLCache[K, V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &TTLCache[K, V]{
		items:      make(map[K]entry[V]),
		maxEntries: o.maxEntries,
		now:        o.now,
	}
}

func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.items[key]
	if !ok {
		return zero, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.items, key)
		return zero, false
	}
	return e.value, true
}

func (c *TTLCache[K, V]) Set(key K, value V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && c.maxEntries > 0 && len(c.items) >= c.maxEntries {
		c.evictLocked()
	}
	c.items[key] = entry[V]{value: value, expiresAt: c.now().Add(ttl)}
}

func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *TTLCache[K, V]) evictLocked() {
	now := c.now()
	for k, e := range c.items {
		if !now.Before(e.expiresAt) {
			delete(c.items, k)
		}
	}
	if len(c.items) < c.maxEntries {
		return
	}

	var (
		oldestKey K
		oldestAt  time.Time
		found     bool
	)
	for k, e := range c.items {
		if !found || e.expiresAt.Before(oldestAt) {
			oldestKey, oldestAt, found = k, e.expiresAt, true
		}
	}
	if found {
		delete(c.items, oldestKey)
	}
}

var _ Cache[string, int] = (*TTLCache[string, int])(nil)
