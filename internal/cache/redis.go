package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultProbeInterval = 5 * time.Second

// RedisClient is a Client backed by go-redis. Readiness is tracked from the
// outcome of each call and re-probed with PING at most once per interval
// while the backend is down.
type RedisClient struct {
	rdb           *redis.Client
	logger        *zap.Logger
	probeInterval time.Duration

	mu        sync.Mutex
	ready     bool
	lastProbe time.Time
}

// NewRedisClient wraps an existing go-redis client
func NewRedisClient(rdb *redis.Client, logger *zap.Logger) *RedisClient {
	return &RedisClient{
		rdb:           rdb,
		logger:        logger,
		probeInterval: defaultProbeInterval,
	}
}

// Redis exposes the underlying client for components that share the connection
func (c *RedisClient) Redis() *redis.Client {
	return c.rdb
}

// Ready reports whether redis answered the last call, probing it when due
func (c *RedisClient) Ready(ctx context.Context) bool {
	c.mu.Lock()
	if c.ready {
		c.mu.Unlock()
		return true
	}
	if !c.lastProbe.IsZero() && time.Since(c.lastProbe) < c.probeInterval {
		c.mu.Unlock()
		return false
	}
	c.lastProbe = time.Now()
	c.mu.Unlock()

	probeCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	err := c.rdb.Ping(probeCtx).Err()
	if err != nil {
		c.logger.Debug("Redis not ready", zap.Error(err))
	}
	c.markReady(err == nil)
	return err == nil
}

func (c *RedisClient) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.markReady(true)
		return nil, ErrMiss
	}
	c.observe(err)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *RedisClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := c.rdb.Set(ctx, key, value, ttl).Err()
	c.observe(err)
	return err
}

func (c *RedisClient) Del(ctx context.Context, key string) error {
	err := c.rdb.Del(ctx, key).Err()
	c.observe(err)
	return err
}

func (c *RedisClient) Close() error {
	return c.rdb.Close()
}

func (c *RedisClient) observe(err error) {
	// A cancelled request says nothing about redis health.
	if errors.Is(err, context.Canceled) {
		return
	}
	c.markReady(err == nil)
}

func (c *RedisClient) markReady(ready bool) {
	c.mu.Lock()
	c.ready = ready
	c.mu.Unlock()
}
