package domain

// Role identifies the privilege level carried by a session token.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleService Role = "service"
)

// TokenClaims is the transport-independent view of a session token's
// claims. The auth adapter converts these to and from signed JWTs.
type TokenClaims struct {
	Subject   string
	Role      Role
	IssuedAt  int64
	ExpiresAt int64
}

// AuthContext carries the authenticated identity through request
// handling.
type AuthContext struct {
	Subject string
	Role    Role
}

// IsAdmin reports whether the context belongs to an administrator.
func (c *AuthContext) IsAdmin() bool {
	return c.Role == RoleAdmin
}
