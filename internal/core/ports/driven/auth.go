package driven

import "github.com/keepsake-labs/driveauth-core/internal/core/domain"

// AuthAdapter handles admin session authentication primitives.
type AuthAdapter interface {
	// VerifyPassword checks a passphrase against a bcrypt hash.
	VerifyPassword(password, hash string) bool

	// GenerateToken creates a signed session token from claims.
	GenerateToken(claims *domain.TokenClaims) (string, error)

	// ParseToken validates a session token and extracts its claims.
	ParseToken(token string) (*domain.TokenClaims, error)
}
