package driven

import (
	"context"

	"github.com/keepsake-labs/driveauth-core/internal/core/domain"
)

// TokenExchanger talks to the identity provider's OAuth endpoints.
// It is a stateless transformer: it never persists tokens.
type TokenExchanger interface {
	// BuildAuthURL constructs the full consent URL the user is sent to.
	// The scope, offline access and forced-consent parameters are fixed
	// by the provider implementation.
	BuildAuthURL(creds *domain.ClientCredentials) string

	// ExchangeCode trades an authorization code for a token pair using
	// grant_type=authorization_code. Codes are single-use by provider
	// contract, so callers must not retry on failure. Provider
	// rejections are returned as *domain.ProviderError.
	ExchangeCode(ctx context.Context, creds *domain.ClientCredentials, code string) (*domain.TokenPair, error)

	// RefreshAccessToken obtains a fresh access token using
	// grant_type=refresh_token. Safe to retry; the provider does not
	// rotate refresh tokens on this path.
	RefreshAccessToken(ctx context.Context, creds *domain.ClientCredentials, refreshToken string) (*domain.TokenPair, error)
}

// DriveUploader uploads file content to the storage provider on behalf
// of a previously authorized account.
type DriveUploader interface {
	// Upload creates a file with the given metadata and content.
	// accessToken must be a currently valid access token.
	Upload(ctx context.Context, accessToken string, req UploadRequest) (*domain.DriveFile, error)
}

// UploadRequest describes one file upload.
type UploadRequest struct {
	Name     string
	MimeType string
	Content  []byte

	// FolderID optionally places the file inside a Drive folder.
	FolderID string
}
