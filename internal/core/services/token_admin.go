package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/keepsake-labs/driveauth-core/internal/core/domain"
	"github.com/keepsake-labs/driveauth-core/internal/core/ports/driven"
	"github.com/keepsake-labs/driveauth-core/internal/core/ports/driving"
)

// Ensure tokenAdminService implements TokenAdminService
var _ driving.TokenAdminService = (*tokenAdminService)(nil)

// TokenAdminServiceConfig holds configuration for the token admin
// service.
type TokenAdminServiceConfig struct {
	Store driven.TokenStore
	OAuth driving.OAuthService

	Logger *slog.Logger
}

// tokenAdminService exposes stored-credential operations to the admin
// surface without ever revealing the token value.
type tokenAdminService struct {
	store  driven.TokenStore
	oauth  driving.OAuthService
	logger *slog.Logger
}

// NewTokenAdminService creates a new token admin service.
func NewTokenAdminService(cfg TokenAdminServiceConfig) driving.TokenAdminService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &tokenAdminService{
		store:  cfg.Store,
		oauth:  cfg.OAuth,
		logger: logger,
	}
}

// Status reports whether a refresh token is currently stored.
func (s *tokenAdminService) Status(ctx context.Context) (*driving.TokenStatus, error) {
	_, err := s.store.Get(ctx)
	if errors.Is(err, domain.ErrNoStoredToken) {
		return &driving.TokenStatus{HasToken: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &driving.TokenStatus{HasToken: true}, nil
}

// Verify performs a dry-run refresh to check the stored token is still
// accepted by the provider. A rejected token reports invalid rather
// than erroring: that is the answer the admin asked for.
func (s *tokenAdminService) Verify(ctx context.Context) (*driving.TokenVerifyResult, error) {
	token, err := s.store.Get(ctx)
	if errors.Is(err, domain.ErrNoStoredToken) {
		return &driving.TokenVerifyResult{Valid: false, Detail: "no refresh token stored"}, nil
	}
	if err != nil {
		return nil, err
	}

	_, err = s.oauth.Refresh(ctx, driving.RefreshRequest{RefreshToken: token})
	if err != nil {
		var provErr *domain.ProviderError
		if errors.As(err, &provErr) {
			s.logger.Warn("stored refresh token rejected", slog.String("error", provErr.Error()))
			return &driving.TokenVerifyResult{Valid: false, Detail: provErr.Error()}, nil
		}
		return nil, err
	}

	return &driving.TokenVerifyResult{Valid: true}, nil
}

// Revoke deletes the locally stored refresh token.
func (s *tokenAdminService) Revoke(ctx context.Context) error {
	if err := s.store.Delete(ctx); err != nil {
		return err
	}
	s.logger.Info("stored refresh token revoked")
	return nil
}
