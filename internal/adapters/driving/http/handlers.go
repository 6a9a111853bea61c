package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/keepsake-labs/driveauth-core/internal/core/domain"
	"github.com/keepsake-labs/driveauth-core/internal/core/ports/driving"
)

// maxUploadSize caps upload request bodies at 32 MiB.
const maxUploadSize = 32 << 20

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Health endpoints

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "redis unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Token lifecycle endpoints

// handleAuthorize returns the Google consent URL for a fresh
// interactive authorization.
func (s *Server) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	resp, err := s.oauthService.Authorize(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build authorization url")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleExchange trades an authorization code for tokens. On success
// Google's response body is forwarded byte for byte so callers see
// every field the provider returned.
func (s *Server) handleExchange(w http.ResponseWriter, r *http.Request) {
	var req driving.ExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pair, err := s.oauthService.Exchange(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "authorization code is required")
			return
		}
		writeProviderError(w, err, "token exchange failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pair.Body())
}

// handleToken mints an access token from the caller's refresh token.
// A missing refresh token is answered with 401 and needsAuth so the
// caller knows to restart the interactive flow.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req driving.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.oauthService.Refresh(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrMissingRefreshToken) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"error":     "no refresh token provided",
				"needsAuth": true,
			})
			return
		}
		writeProviderError(w, err, "token refresh failed")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Admin auth endpoints

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req driving.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.authService.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, domain.ErrUnauthorized):
			writeError(w, http.StatusUnauthorized, "admin access disabled")
		default:
			writeError(w, http.StatusInternalServerError, "authentication failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Token administration endpoints

func (s *Server) handleTokenStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.tokenAdminService.Status(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read token status")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleTokenVerify(w http.ResponseWriter, r *http.Request) {
	result, err := s.tokenAdminService.Verify(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "verification failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTokenRevoke(w http.ResponseWriter, r *http.Request) {
	if err := s.tokenAdminService.Revoke(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to revoke token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Upload endpoint

// handleUpload accepts a multipart form with a "file" field and an
// optional "folder_id" field.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	resp, err := s.uploadService.Upload(r.Context(), driving.UploadFileRequest{
		Name:     header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Content:  content,
		FolderID: r.FormValue("folder_id"),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoStoredToken):
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"error":     "drive not authorized",
				"needsAuth": true,
			})
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "name and content are required")
		default:
			writeProviderError(w, err, "upload failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// writeProviderError maps provider failures onto the response. A
// provider status outside the error range falls back to 502.
func writeProviderError(w http.ResponseWriter, err error, fallback string) {
	var provErr *domain.ProviderError
	if errors.As(err, &provErr) {
		status := provErr.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, map[string]string{
			"error":             provErr.Code,
			"error_description": provErr.Description,
		})
		return
	}
	writeError(w, http.StatusInternalServerError, fallback)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
