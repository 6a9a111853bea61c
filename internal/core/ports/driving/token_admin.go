package driving

import "context"

// TokenAdminService exposes credential operations for the admin panel.
// The stored refresh token is never revealed - only its presence and
// validity.
type TokenAdminService interface {
	// Status reports whether a refresh token is currently stored.
	Status(ctx context.Context) (*TokenStatus, error)

	// Verify performs a dry-run refresh against the provider to check
	// that the stored token is still accepted.
	Verify(ctx context.Context) (*TokenVerifyResult, error)

	// Revoke deletes the locally stored refresh token. Provider-side
	// revocation is out of scope - the credential stays valid at the
	// provider until revoked there.
	Revoke(ctx context.Context) error
}

// TokenStatus reports stored-token presence.
type TokenStatus struct {
	HasToken bool `json:"has_token"`
}

// TokenVerifyResult reports the outcome of a dry-run refresh.
type TokenVerifyResult struct {
	Valid bool `json:"valid"`

	// Detail carries the provider's error text when Valid is false.
	Detail string `json:"detail,omitempty"`
}
