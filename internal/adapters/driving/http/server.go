package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keepsake-labs/driveauth-core/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string

	// Services
	oauthService      driving.OAuthService
	callbackService   driving.CallbackService
	authService       driving.AuthService
	tokenAdminService driving.TokenAdminService
	uploadService     driving.UploadService

	// Infrastructure
	db          Pinger // PostgreSQL health check (optional)
	redisClient Pinger // Redis health check (optional)
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	oauthService driving.OAuthService,
	callbackService driving.CallbackService,
	authService driving.AuthService,
	tokenAdminService driving.TokenAdminService,
	uploadService driving.UploadService,
	db Pinger, // can be nil
	redisClient Pinger, // can be nil
) *Server {
	s := &Server{
		router:            http.NewServeMux(),
		version:           cfg.Version,
		oauthService:      oauthService,
		callbackService:   callbackService,
		authService:       authService,
		tokenAdminService: tokenAdminService,
		uploadService:     uploadService,
		db:                db,
		redisClient:       redisClient,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	authMiddleware := NewAuthMiddleware(s.authService)

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Token lifecycle endpoints. These stay public: the exchange and
	// token routes are called by trusted server-side components, and
	// the callback receives redirects from Google.
	s.router.HandleFunc("GET /google-drive-auth/authorize", s.handleAuthorize)
	s.router.HandleFunc("POST /google-drive-auth/exchange", s.handleExchange)
	s.router.HandleFunc("POST /google-drive-auth/token", s.handleToken)
	s.router.HandleFunc("GET /google-drive-auth/callback", s.handleCallback)

	// Server-side upload path (authenticated)
	s.router.Handle("POST /google-drive-auth/upload",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleUpload)))

	// Admin auth
	s.router.HandleFunc("POST /api/v1/auth/login", s.handleLogin)

	// Token administration (admin-only)
	s.router.Handle("GET /api/v1/admin/token/status",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleTokenStatus))))
	s.router.Handle("POST /api/v1/admin/token/verify",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleTokenVerify))))
	s.router.Handle("DELETE /api/v1/admin/token",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleTokenRevoke))))
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
