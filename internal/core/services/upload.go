package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/keepsake-labs/driveauth-core/internal/core/domain"
	"github.com/keepsake-labs/driveauth-core/internal/core/ports/driven"
	"github.com/keepsake-labs/driveauth-core/internal/core/ports/driving"
)

// Ensure uploadService implements UploadService
var _ driving.UploadService = (*uploadService)(nil)

// UploadServiceConfig holds configuration for the upload service.
type UploadServiceConfig struct {
	Store    driven.TokenStore
	OAuth    driving.OAuthService
	Uploader driven.DriveUploader

	Logger *slog.Logger
}

// uploadService is the server-side upload path. A fresh access token
// is minted per request from the stored refresh token; access tokens
// are never cached.
type uploadService struct {
	store    driven.TokenStore
	oauth    driving.OAuthService
	uploader driven.DriveUploader
	logger   *slog.Logger
}

// NewUploadService creates a new upload service.
func NewUploadService(cfg UploadServiceConfig) driving.UploadService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &uploadService{
		store:    cfg.Store,
		oauth:    cfg.OAuth,
		uploader: cfg.Uploader,
		logger:   logger,
	}
}

// Upload stores one file in Drive using the authorized account.
func (s *uploadService) Upload(ctx context.Context, req driving.UploadFileRequest) (*driving.UploadFileResponse, error) {
	if req.Name == "" || len(req.Content) == 0 {
		return nil, fmt.Errorf("%w: name and content are required", domain.ErrInvalidInput)
	}

	refreshToken, err := s.store.Get(ctx)
	if err != nil {
		// Propagates domain.ErrNoStoredToken: the caller must run the
		// interactive authorization flow first.
		return nil, err
	}

	access, err := s.oauth.Refresh(ctx, driving.RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, fmt.Errorf("mint access token: %w", err)
	}

	file, err := s.uploader.Upload(ctx, access.AccessToken, driven.UploadRequest{
		Name:     req.Name,
		MimeType: req.MimeType,
		Content:  req.Content,
		FolderID: req.FolderID,
	})
	if err != nil {
		return nil, fmt.Errorf("upload to drive: %w", err)
	}

	s.logger.Info("file uploaded",
		slog.String("file_id", file.ID),
		slog.String("name", file.Name),
	)

	return &driving.UploadFileResponse{
		ID:          file.ID,
		Name:        file.Name,
		WebViewLink: file.WebViewLink,
	}, nil
}
