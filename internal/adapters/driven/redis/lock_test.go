package redis

import (
	"context"
	"testing"
	"time"
)

func TestLock_AcquireRelease(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	lock := NewLock(client)
	ctx := context.Background()

	acquired, err := lock.Acquire(ctx, "commit", time.Minute)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if !acquired {
		t.Fatal("Acquire() = false, want true on free lock")
	}

	if err := lock.Release(ctx, "commit"); err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	acquired, err = lock.Acquire(ctx, "commit", time.Minute)
	if err != nil {
		t.Fatalf("Acquire() after release error = %v", err)
	}
	if !acquired {
		t.Error("Acquire() = false after release, want true")
	}
}

func TestLock_HeldByOtherInstance(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	lock1 := NewLock(client)
	lock2 := NewLock(client)
	ctx := context.Background()

	if acquired, _ := lock1.Acquire(ctx, "commit", time.Minute); !acquired {
		t.Fatal("first Acquire() = false, want true")
	}

	acquired, err := lock2.Acquire(ctx, "commit", time.Minute)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if acquired {
		t.Error("second instance acquired a held lock")
	}

	// Releasing someone else's lock must be a no-op.
	if err := lock2.Release(ctx, "commit"); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if acquired, _ := lock2.Acquire(ctx, "commit", time.Minute); acquired {
		t.Error("foreign release freed the lock")
	}
}
