package driving

import (
	"context"

	"github.com/keepsake-labs/driveauth-core/internal/core/domain"
)

// AuthService authenticates admin requests against the configured
// passphrase and validates session tokens.
type AuthService interface {
	// Login verifies the admin passphrase and issues a session token.
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)

	// ValidateToken validates a session token and returns its context.
	ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error)
}

// LoginRequest carries the admin passphrase.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse contains the issued session token.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
