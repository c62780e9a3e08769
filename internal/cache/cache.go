// Package cache provides the key-value store used to accelerate catalog reads.
//
// Callers treat every error from a Client as non-fatal: the cache is an
// acceleration layer only and storage stays the source of truth.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired
var ErrMiss = errors.New("cache miss")

// Client is a get/set-with-ttl/delete store with a readiness signal
type Client interface {
	// Ready reports whether the backend can currently serve requests
	Ready(ctx context.Context) bool
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Close() error
}
