package bolt

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/keepsake-labs/driveauth-core/internal/core/domain"
)

func openTestStore(t *testing.T) *TokenStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "tokens.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTokenStore_RoundTrip(t *testing.T) {
	store := openTestStore(t)
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

	if err := store.Set(ctx, "rt-2"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	token, _ = store.Get(ctx)
	if token != "rt-2" {
		t.Errorf("Get() = %q, want the newer token", token)
	}
}

func TestTokenStore_Delete(t *testing.T) {
	store := openTestStore(t)
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

func TestTokenStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := store.Set(context.Background(), "rt-durable"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	token, err := reopened.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if token != "rt-durable" {
		t.Errorf("Get() after reopen = %q, want rt-durable", token)
	}
}
