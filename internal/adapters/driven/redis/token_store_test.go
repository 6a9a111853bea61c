package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/keepsake-labs/driveauth-core/internal/core/domain"
)

// setupTestRedis creates a miniredis-backed client for tests
func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return client, func() {
		client.Close()
		mr.Close()
	}
}

func TestTokenStore_RoundTrip(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewTokenStore(client)
	ctx := context.Background()

	if _, err := store.Get(ctx); !errors.Is(err, domain.ErrNoStoredToken) {
		t.Errorf("Get() on empty store error = %v, want ErrNoStoredToken", err)
	}

	if err := store.Set(ctx, "rt-1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	token, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if token != "rt-1" {
		t.Errorf("Get() = %q, want rt-1", token)
	}
}

func TestTokenStore_Overwrite(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewTokenStore(client)
	ctx := context.Background()

	if err := store.Set(ctx, "rt-old"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Set(ctx, "rt-new"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	token, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if token != "rt-new" {
		t.Errorf("Get() = %q, want the newer token", token)
	}
}

func TestTokenStore_Delete(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewTokenStore(client)
	ctx := context.Background()

	if err := store.Delete(ctx); err != nil {
		t.Errorf("Delete() on empty store error = %v, want nil", err)
	}

	if err := store.Set(ctx, "rt"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Delete(ctx); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx); !errors.Is(err, domain.ErrNoStoredToken) {
		t.Errorf("Get() after delete error = %v, want ErrNoStoredToken", err)
	}
}
