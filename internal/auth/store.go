package auth

import (
	"context"
	"time"
)

// Store is the expiring key-value state behind OTPs, login attempt
// counters, lockouts and sessions. A Redis client backs it in
// production; the in-memory implementation serves single-node
// deployments and tests.
type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns (value, found, error); an expired key is not found.
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
	// Incr increments a counter, creating it with the given TTL when absent.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// TTL reports the remaining lifetime of a key, zero when absent.
	TTL(ctx context.Context, key string) (time.Duration, error)
}
