package cache

import (
	"context"
	"time"
)

// Cache is the contract of the cache layer (Redis in production, memory in
// development and tests)
type Cache interface {
	// Get unmarshals the cached value into dest
	// Returns: (found bool, error)
	// - found = true: cache hit, dest populated
	// - found = false: cache miss, dest untouched
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value as JSON with the given TTL (0 = no expiry)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern
	DeletePattern(ctx context.Context, pattern string) error

	// Expire resets the TTL of an existing key
	Expire(ctx context.Context, key string, ttl time.Duration) error

	Ping(ctx context.Context) error
}
