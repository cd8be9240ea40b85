package resultcache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.trai.ch/sqip/internal/core/domain"
	"go.trai.ch/sqip/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// DefaultRedisPrefix namespaces sqip keys on a shared redis instance.
	DefaultRedisPrefix = "sqip:"
	// DefaultRedisTimeout bounds every redis round trip.
	DefaultRedisTimeout = 2 * time.Second
)

var _ ports.ResultCache = (*RedisCache)(nil)

// RedisCache stores JSON-encoded results in redis with an optional TTL.
type RedisCache struct {
	client  redis.UniversalClient
	prefix  string
	ttl     time.Duration
	timeout time.Duration
	owned   bool
}

// RedisOption configures a RedisCache.
type RedisOption func(*RedisCache)

// WithPrefix overrides DefaultRedisPrefix.
func WithPrefix(prefix string) RedisOption {
	return func(c *RedisCache) {
		c.prefix = prefix
	}
}

// WithTimeout overrides DefaultRedisTimeout.
func WithTimeout(d time.Duration) RedisOption {
	return func(c *RedisCache) {
		c.timeout = d
	}
}

// NewRedisCache wraps an existing client. The caller keeps ownership of it.
// A zero ttl stores entries without expiry.
func NewRedisCache(client redis.UniversalClient, ttl time.Duration, opts ...RedisOption) *RedisCache {
	c := &RedisCache{
		client:  client,
		prefix:  DefaultRedisPrefix,
		ttl:     ttl,
		timeout: DefaultRedisTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DialRedis connects to the server described by cfg and verifies it with a PING.
// The returned cache owns the client and closes it on Close.
func DialRedis(ctx context.Context, cfg domain.RedisConfig, opts ...RedisOption) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	c := NewRedisCache(client, cfg.TTL, opts...)
	c.owned = true

	pingCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, zerr.With(zerr.Wrap(err, "failed to connect to redis"), "addr", cfg.Addr)
	}
	return c, nil
}

// Get retrieves a result from redis.
func (c *RedisCache) Get(ctx context.Context, key domain.CacheKey) (*domain.PreviewResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := c.client.Get(ctx, c.prefix+key.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, zerr.With(domain.WithCause(domain.ErrResultCacheReadFailed, err), "key", key.String())
	}

	var result domain.PreviewResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, zerr.With(domain.WithCause(domain.ErrResultCacheReadFailed, err), "key", key.String())
	}
	return &result, nil
}

// Set stores a result in redis.
func (c *RedisCache) Set(ctx context.Context, key domain.CacheKey, result domain.PreviewResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return zerr.With(domain.WithCause(domain.ErrResultCacheWriteFailed, err), "key", key.String())
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.client.Set(ctx, c.prefix+key.String(), data, c.ttl).Err(); err != nil {
		return zerr.With(domain.WithCause(domain.ErrResultCacheWriteFailed, err), "key", key.String())
	}
	return nil
}

// Close closes the client when the cache created it.
func (c *RedisCache) Close() error {
	if !c.owned {
		return nil
	}
	return c.client.Close()
}
