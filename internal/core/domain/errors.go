package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNoStoredToken indicates the token store holds no refresh token.
	// This is the signal to run the full interactive authorization flow.
	ErrNoStoredToken = errors.New("no stored refresh token")

	// ErrMissingRefreshToken indicates a refresh was requested with an
	// empty refresh token. Surfaced to callers with a needsAuth flag.
	ErrMissingRefreshToken = errors.New("missing refresh token")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials indicates a wrong admin passphrase
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenExpired indicates the session token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the session token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrProtocolViolation indicates a callback hit that carried neither
	// an authorization code nor a provider error parameter.
	ErrProtocolViolation = errors.New("callback carried neither code nor error")
)

// ProviderError carries an identity-provider rejection: the provider's
// HTTP status plus its error code and description, so handlers can map
// the failure back onto an equivalent 4xx/5xx response.
type ProviderError struct {
	Status      int
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	if e.Description != "" {
		return e.Code + ": " + e.Description
	}
	return e.Code
}

// Temporary reports whether the rejection is worth retrying. Exchange
// failures never are (authorization codes are single-use); only
// provider-side 5xx responses qualify.
func (e *ProviderError) Temporary() bool {
	return e.Status >= 500
}
