package driven

import "context"

// RefreshTokenKey is the fixed slot name under which the refresh token
// is persisted. Part of the external contract shared with the
// storefront frontend - do not rename.
const RefreshTokenKey = "google_drive_refresh_token"

// TokenStore is the durable single-slot holder of the current refresh
// token. At most one value exists per deployment; a new successful
// authorization overwrites it. No expiry is tracked - validity is
// discovered lazily by the next refresh attempt failing.
//
// The auth listener is the only writer on the authorization path.
type TokenStore interface {
	// Get returns the stored refresh token.
	// Returns domain.ErrNoStoredToken when the slot is empty.
	Get(ctx context.Context) (string, error)

	// Set overwrites the stored refresh token.
	Set(ctx context.Context, token string) error

	// Delete clears the slot. Deleting an empty slot is not an error.
	Delete(ctx context.Context) error
}
