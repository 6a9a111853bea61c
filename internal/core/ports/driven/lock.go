package driven

import (
	"context"
	"time"
)

// DistributedLock serializes token commits across instances. Concurrent
// authorization popups are not prevented by the product, so two
// attempts can finish near-simultaneously; the lock keeps their store
// writes ordered (last write still wins, but writes never interleave).
type DistributedLock interface {
	// Acquire attempts to acquire a named lock with the given TTL.
	// Returns true if acquired, false if already held elsewhere.
	// The lock auto-expires after TTL.
	Acquire(ctx context.Context, name string, ttl time.Duration) (acquired bool, err error)

	// Release releases a named lock. Best-effort; TTL expiry covers
	// crashed holders. Safe to call for a lock that is not held.
	Release(ctx context.Context, name string) error
}
