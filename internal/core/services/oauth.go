package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/keepsake-labs/driveauth-core/internal/core/domain"
	"github.com/keepsake-labs/driveauth-core/internal/core/ports/driven"
	"github.com/keepsake-labs/driveauth-core/internal/core/ports/driving"
)

// Ensure oauthService implements OAuthService
var _ driving.OAuthService = (*oauthService)(nil)

// OAuthServiceConfig holds configuration for the OAuth service.
type OAuthServiceConfig struct {
	// Credentials is the process-wide OAuth application identity.
	Credentials *domain.ClientCredentials

	// Exchanger talks to the identity provider's token endpoint.
	Exchanger driven.TokenExchanger

	Logger *slog.Logger
}

// oauthService implements the OAuthService interface. It is a
// stateless transformer over the provider's token endpoint: no token
// ever touches storage on these paths.
type oauthService struct {
	creds     *domain.ClientCredentials
	exchanger driven.TokenExchanger
	logger    *slog.Logger
}

// NewOAuthService creates a new OAuth service.
func NewOAuthService(cfg OAuthServiceConfig) driving.OAuthService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &oauthService{
		creds:     cfg.Credentials,
		exchanger: cfg.Exchanger,
		logger:    logger,
	}
}

// Authorize returns the fully formed provider consent URL.
func (s *oauthService) Authorize(ctx context.Context) (*driving.AuthorizeResponse, error) {
	return &driving.AuthorizeResponse{
		AuthURL: s.exchanger.BuildAuthURL(s.creds),
	}, nil
}

// Exchange trades an authorization code for a token pair. The provider
// response is returned verbatim inside the pair. Not retried: codes
// are single-use by provider contract.
func (s *oauthService) Exchange(ctx context.Context, req driving.ExchangeRequest) (*domain.TokenPair, error) {
	if req.Code == "" {
		return nil, fmt.Errorf("%w: code is required", domain.ErrInvalidInput)
	}

	pair, err := s.exchanger.ExchangeCode(ctx, s.creds, req.Code)
	if err != nil {
		s.logger.Warn("token exchange failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	s.logger.Info("token exchange succeeded",
		slog.Bool("refresh_token_granted", pair.RefreshToken != ""),
		slog.Int("expires_in", pair.ExpiresIn),
	)

	return pair, nil
}

// Refresh mints a short-lived access token from a refresh token. An
// empty token is the designed "re-run the interactive flow" signal and
// never reaches the provider.
func (s *oauthService) Refresh(ctx context.Context, req driving.RefreshRequest) (*driving.RefreshResponse, error) {
	if req.RefreshToken == "" {
		return nil, domain.ErrMissingRefreshToken
	}

	pair, err := s.exchanger.RefreshAccessToken(ctx, s.creds, req.RefreshToken)
	if err != nil {
		s.logger.Warn("token refresh failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("refresh access token: %w", err)
	}

	// Access token only - refresh tokens are not rotated on this path.
	return &driving.RefreshResponse{AccessToken: pair.AccessToken}, nil
}
