package bolt

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/keepsake-labs/driveauth-core/internal/core/domain"
	"github.com/keepsake-labs/driveauth-core/internal/core/ports/driven"
)

const (
	// storeDirPerm is the permission mode for the store directory.
	storeDirPerm = fs.FileMode(0o700)

	// storeFilePerm is the permission mode for the database file.
	storeFilePerm = fs.FileMode(0o600)

	// storeOpenTimeout is the maximum time to wait for the bolt database lock.
	storeOpenTimeout = 5 * time.Second
)

var tokensBucket = []byte("oauth_tokens")

// Verify interface compliance
var _ driven.TokenStore = (*TokenStore)(nil)

// TokenStore keeps the refresh token in a local bbolt file. This is
// the single-node fallback when neither Postgres nor Redis is
// configured.
type TokenStore struct {
	db *bolt.DB
}

// Open opens the token database at the given path, creating it if it
// does not exist. The tokens bucket is created on open.
func Open(path string) (*TokenStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), storeDirPerm); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := bolt.Open(path, storeFilePerm, &bolt.Options{Timeout: storeOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("opening token db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(tokensBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tokens bucket: %w", err)
	}

	return &TokenStore{db: db}, nil
}

// Get returns the stored refresh token.
func (s *TokenStore) Get(_ context.Context) (string, error) {
	var token string
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(tokensBucket).Get([]byte(driven.RefreshTokenKey))
		if v != nil {
			token = string(v)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("reading token: %w", err)
	}
	if token == "" {
		return "", domain.ErrNoStoredToken
	}
	return token, nil
}

// Set stores or replaces the refresh token.
func (s *TokenStore) Set(_ context.Context, token string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(tokensBucket).Put([]byte(driven.RefreshTokenKey), []byte(token))
	})
	if err != nil {
		return fmt.Errorf("writing token: %w", err)
	}
	return nil
}

// Delete removes the stored refresh token.
func (s *TokenStore) Delete(_ context.Context) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(tokensBucket).Delete([]byte(driven.RefreshTokenKey))
	})
	if err != nil {
		return fmt.Errorf("deleting token: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *TokenStore) Close() error {
	return s.db.Close()
}
