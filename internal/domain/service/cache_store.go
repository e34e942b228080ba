package service

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by CacheStore.Get when the key does not exist.
var ErrCacheMiss = errors.New("cache miss")

// CacheStore is the key-value collaborator shared by three independent uses:
// the read-through list/detail cache, the revoked-access-token ledger and the
// one-time verification/reset codes. Values are opaque strings; callers do
// their own serialization.
type CacheStore interface {
	// Get returns the value stored under key, or ErrCacheMiss.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key with the given expiry. A zero ttl means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Keys returns every key matching the glob pattern.
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Del removes the given keys. Missing keys are not an error.
	Del(ctx context.Context, keys ...string) error

	// TTL returns the remaining lifetime of key.
	TTL(ctx context.Context, key string) (time.Duration, error)
}
