package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/keepsake-labs/driveauth-core/internal/core/domain"
	"github.com/keepsake-labs/driveauth-core/internal/core/ports/driven"
)

// Ensure TokenStore implements the interface.
var _ driven.TokenStore = (*TokenStore)(nil)

// TokenStore persists the refresh token in Postgres, encrypted at rest.
type TokenStore struct {
	db        *DB
	encryptor *TokenEncryptor
}

// NewTokenStore creates a new Postgres-backed token store.
func NewTokenStore(db *DB, encryptor *TokenEncryptor) *TokenStore {
	return &TokenStore{db: db, encryptor: encryptor}
}

// Get returns the stored refresh token.
func (s *TokenStore) Get(ctx context.Context) (string, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT secret FROM oauth_tokens WHERE key = $1`,
		driven.RefreshTokenKey,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNoStoredToken
	}
	if err != nil {
		return "", fmt.Errorf("query token: %w", err)
	}

	token, err := s.encryptor.Decrypt(blob)
	if err != nil {
		return "", fmt.Errorf("decrypt token: %w", err)
	}
	return token, nil
}

// Set stores or replaces the refresh token.
func (s *TokenStore) Set(ctx context.Context, token string) error {
	blob, err := s.encryptor.Encrypt(token)
	if err != nil {
		return fmt.Errorf("encrypt token: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO oauth_tokens (key, secret, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET secret = EXCLUDED.secret, updated_at = now()`,
		driven.RefreshTokenKey, blob,
	)
	if err != nil {
		return fmt.Errorf("upsert token: %w", err)
	}
	return nil
}

// Delete removes the stored refresh token. Deleting a missing token is
// not an error.
func (s *TokenStore) Delete(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM oauth_tokens WHERE key = $1`,
		driven.RefreshTokenKey,
	)
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}
