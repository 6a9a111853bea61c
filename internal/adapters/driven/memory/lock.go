package memory

import (
	"context"
	"sync"
	"time"

	"github.com/keepsake-labs/driveauth-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DistributedLock = (*Lock)(nil)

// Lock is a single-process lock with TTL expiry. It only guards
// against concurrent goroutines, not other instances.
type Lock struct {
	mu    sync.Mutex
	locks map[string]time.Time
}

// NewLock creates a new in-memory lock.
func NewLock() *Lock {
	return &Lock{locks: make(map[string]time.Time)}
}

// Acquire attempts to acquire a named lock with the given TTL.
func (l *Lock) Acquire(_ context.Context, name string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if expiry, held := l.locks[name]; held && time.Now().Before(expiry) {
		return false, nil
	}
	l.locks[name] = time.Now().Add(ttl)
	return true, nil
}

// Release releases a named lock. Safe to call when not held.
func (l *Lock) Release(_ context.Context, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.locks, name)
	return nil
}
