package memory

import (
	"context"
	"sync"

	"github.com/keepsake-labs/driveauth-core/internal/core/domain"
	"github.com/keepsake-labs/driveauth-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.TokenStore = (*TokenStore)(nil)

// TokenStore keeps the refresh token in process memory. Used in tests
// and throwaway deployments; the token does not survive a restart.
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewTokenStore creates a new in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the stored refresh token.
func (s *TokenStore) Get(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", domain.ErrNoStoredToken
	}
	return s.token, nil
}

// Set stores or replaces the refresh token.
func (s *TokenStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Delete removes the stored refresh token.
func (s *TokenStore) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
