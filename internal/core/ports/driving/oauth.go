package driving

import (
	"context"

	"github.com/keepsake-labs/driveauth-core/internal/core/domain"
)

// OAuthService owns the Google Drive token lifecycle: building the
// consent URL, exchanging authorization codes, and minting access
// tokens from a refresh token. It never persists tokens itself.
type OAuthService interface {
	// Authorize returns the fully formed consent URL for a fresh
	// interactive authorization.
	Authorize(ctx context.Context) (*AuthorizeResponse, error)

	// Exchange trades an authorization code for a token pair. The
	// returned pair carries the provider response verbatim. Codes are
	// single-use: callers must not retry a failed exchange.
	Exchange(ctx context.Context, req ExchangeRequest) (*domain.TokenPair, error)

	// Refresh mints a short-lived access token from a refresh token.
	// An empty refresh token fails with domain.ErrMissingRefreshToken
	// before any provider call is made.
	Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error)
}

// ExchangeRequest carries the authorization code from the callback.
type ExchangeRequest struct {
	Code string `json:"code"`
}

// RefreshRequest carries the stored refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse returns the access token only - refresh tokens are
// never rotated or echoed back on this path.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// AuthorizeResponse contains the provider consent URL.
type AuthorizeResponse struct {
	AuthURL string `json:"authUrl"`
}
