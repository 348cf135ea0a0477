// Package cache is a read-through cache whose entries are grouped under
// tags. Invalidating a tag drops every entry filed under it; a fill that
// started before the invalidation is returned to its callers but never
// stored.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	TagOrders   = "orders"
	TagProducts = "products"
	TagElements = "elements"
)

const broadcastTimeout = 5 * time.Second

// Broadcaster forwards tag invalidations to other processes.
type Broadcaster interface {
	PublishInvalidation(ctx context.Context, tag string) error
}

type entry struct {
	value   any
	tags    []string
	expires time.Time
}

type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	tagKeys map[string]map[string]struct{}
	tagGen  map[string]uint64

	group       singleflight.Group
	ttl         time.Duration
	now         func() time.Time
	logger      *zap.Logger
	broadcaster Broadcaster
}

type Option func(*Cache)

func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithBroadcaster(b Broadcaster) Option {
	return func(c *Cache) { c.broadcaster = b }
}

func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New returns a cache whose entries live at most ttl. A ttl of zero keeps
// entries until their tags are invalidated.
func New(ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		tagKeys: make(map[string]map[string]struct{}),
		tagGen:  make(map[string]uint64),
		ttl:     ttl,
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Remember returns the cached value for key or computes it with fn and
// files it under tags. Concurrent misses for the same key share one fn call.
// Errors are never cached. A nil cache always calls fn.
func Remember[T any](ctx context.Context, c *Cache, key string, tags []string, fn func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return fn(ctx)
	}

	if v, ok := c.lookup(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	gens := c.generations(tags)
	flightKey := key + "@" + gens.String()

	// A shared fill ignores the cancellation of any single caller.
	fillCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(flightKey, func() (any, error) {
		value, err := fn(fillCtx)
		if err != nil {
			return nil, err
		}
		c.store(key, tags, gens, value)
		return value, nil
	})

	var v any
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			var zero T
			return zero, res.Err
		}
		v = res.Val
	}

	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache: value for %q has type %T", key, v)
	}
	return typed, nil
}

// Invalidate drops every entry filed under tag and broadcasts the
// invalidation without waiting for delivery.
func (c *Cache) Invalidate(ctx context.Context, tag string) {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.tagGen[tag]++
	for key := range c.tagKeys[tag] {
		c.removeLocked(key)
	}
	delete(c.tagKeys, tag)
	c.mu.Unlock()

	c.logger.Debug("Cache tag invalidated", zap.String("tag", tag))

	if c.broadcaster == nil {
		return
	}
	go func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, broadcastTimeout)
		defer cancel()
		if err := c.broadcaster.PublishInvalidation(ctx, tag); err != nil {
			c.logger.Warn("Failed to broadcast cache invalidation", zap.String("tag", tag), zap.Error(err))
		}
	}(context.WithoutCancel(ctx))
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) lookup(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		c.removeLocked(key)
		return nil, false
	}
	return e.value, true
}

func (c *Cache) store(key string, tags []string, gens generations, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, tag := range tags {
		if c.tagGen[tag] != gens[i] {
			return
		}
	}

	c.removeLocked(key)
	e := entry{value: value, tags: tags}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.entries[key] = e
	for _, tag := range tags {
		keys, ok := c.tagKeys[tag]
		if !ok {
			keys = make(map[string]struct{})
			c.tagKeys[tag] = keys
		}
		keys[key] = struct{}{}
	}
}

func (c *Cache) removeLocked(key string) {
	e, ok := c.entries[key]
	if !ok {
		return
	}
	delete(c.entries, key)
	for _, tag := range e.tags {
		delete(c.tagKeys[tag], key)
	}
}

type generations []uint64

func (g generations) String() string {
	parts := make([]string, len(g))
	for i, n := range g {
		parts[i] = strconv.FormatUint(n, 10)
	}
	return strings.Join(parts, ".")
}

func (c *Cache) generations(tags []string) generations {
	c.mu.Lock()
	defer c.mu.Unlock()
	gens := make(generations, len(tags))
	for i, tag := range tags {
		gens[i] = c.tagGen[tag]
	}
	return gens
}
