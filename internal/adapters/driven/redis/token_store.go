package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/keepsake-labs/driveauth-core/internal/core/domain"
	"github.com/keepsake-labs/driveauth-core/internal/core/ports/driven"
	"github.com/redis/go-redis/v9"
)

// Verify interface compliance
var _ driven.TokenStore = (*TokenStore)(nil)

const tokenKeyPrefix = "gdrive:"

// TokenStore keeps the refresh token in Redis. Intended for
// deployments without Postgres; the token has no TTL.
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore creates a new Redis-backed token store.
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

func (s *TokenStore) key() string {
	return tokenKeyPrefix + driven.RefreshTokenKey
}

// Get returns the stored refresh token.
func (s *TokenStore) Get(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key()).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrNoStoredToken
	}
	if err != nil {
		return "", fmt.Errorf("get token: %w", err)
	}
	if token == "" {
		return "", domain.ErrNoStoredToken
	}
	return token, nil
}

// Set stores or replaces the refresh token.
func (s *TokenStore) Set(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key(), token, 0).Err(); err != nil {
		return fmt.Errorf("set token: %w", err)
	}
	return nil
}

// Delete removes the stored refresh token.
func (s *TokenStore) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// Ping checks if the Redis backend is healthy.
func (s *TokenStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
