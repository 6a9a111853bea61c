package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/keepsake-labs/driveauth-core/internal/core/domain"
	"github.com/keepsake-labs/driveauth-core/internal/core/ports/driven"
	"github.com/keepsake-labs/driveauth-core/internal/core/ports/driving"
)

// Ensure authService implements AuthService
var _ driving.AuthService = (*authService)(nil)

// defaultSessionTTL is how long an admin session token stays valid.
const defaultSessionTTL = 12 * time.Hour

// AuthServiceConfig holds configuration for the admin auth service.
type AuthServiceConfig struct {
	// PasswordHash is the bcrypt hash of the admin passphrase.
	PasswordHash string

	Adapter driven.AuthAdapter

	// SessionTTL overrides the default session lifetime when non-zero.
	SessionTTL time.Duration

	Logger *slog.Logger
}

// authService implements admin login and token validation.
type authService struct {
	passwordHash string
	adapter      driven.AuthAdapter
	sessionTTL   time.Duration
	logger       *slog.Logger
}

// NewAuthService creates a new admin auth service.
func NewAuthService(cfg AuthServiceConfig) driving.AuthService {
	ttl := cfg.SessionTTL
	if ttl == 0 {
		ttl = defaultSessionTTL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &authService{
		passwordHash: cfg.PasswordHash,
		adapter:      cfg.Adapter,
		sessionTTL:   ttl,
		logger:       logger,
	}
}

// Login verifies the admin passphrase and issues a session token.
func (s *authService) Login(ctx context.Context, req driving.LoginRequest) (*driving.LoginResponse, error) {
	if s.passwordHash == "" {
		// Admin surface disabled by deployment.
		return nil, domain.ErrUnauthorized
	}

	if !s.adapter.VerifyPassword(req.Password, s.passwordHash) {
		s.logger.Warn("admin login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	token, err := s.adapter.GenerateToken(&domain.TokenClaims{
		Subject:   "admin",
		Role:      domain.RoleAdmin,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.sessionTTL).Unix(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("admin login succeeded")
	return &driving.LoginResponse{
		Token:     token,
		ExpiresIn: int(s.sessionTTL.Seconds()),
	}, nil
}

// ValidateToken validates a session token and returns its context.
func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	claims, err := s.adapter.ParseToken(token)
	if err != nil {
		// The adapter maps expiry to domain.ErrTokenExpired; anything
		// else is treated as an invalid token.
		if errors.Is(err, domain.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	return &domain.AuthContext{
		Subject: claims.Subject,
		Role:    claims.Role,
	}, nil
}
