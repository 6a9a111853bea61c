package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/keepsake-labs/driveauth-core/internal/core/domain"
	"github.com/keepsake-labs/driveauth-core/internal/core/ports/driven"
)

const defaultUploadEndpoint = "https://www.googleapis.com/upload/drive/v3/files"

// Ensure DriveClient implements the interface.
var _ driven.DriveUploader = (*DriveClient)(nil)

// DriveClient uploads files through the Drive v3 multipart endpoint.
type DriveClient struct {
	httpClient     *http.Client
	uploadEndpoint string
}

// DriveOption configures a DriveClient.
type DriveOption func(*DriveClient)

// WithUploadEndpoint overrides the upload endpoint, used in tests.
func WithUploadEndpoint(endpoint string) DriveOption {
	return func(c *DriveClient) {
		c.uploadEndpoint = endpoint
	}
}

// NewDriveClient creates a new Drive upload client.
func NewDriveClient(opts ...DriveOption) *DriveClient {
	c := &DriveClient{
		httpClient:     &http.Client{Timeout: 60 * time.Second},
		uploadEndpoint: defaultUploadEndpoint,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upload sends a single file as a multipart/related request: a JSON
// metadata part followed by the raw content part.
func (c *DriveClient) Upload(ctx context.Context, accessToken string, upload driven.UploadRequest) (*domain.DriveFile, error) {
	metadata := map[string]any{
		"name": upload.Name,
	}
	if upload.MimeType != "" {
		metadata["mimeType"] = upload.MimeType
	}
	if upload.FolderID != "" {
		metadata["parents"] = []string{upload.FolderID}
	}

	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metaPart, err := mw.CreatePart(metaHeader)
	if err != nil {
		return nil, fmt.Errorf("create metadata part: %w", err)
	}
	if _, err := metaPart.Write(metaJSON); err != nil {
		return nil, fmt.Errorf("write metadata part: %w", err)
	}

	contentHeader := textproto.MIMEHeader{}
	contentType := upload.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	contentHeader.Set("Content-Type", contentType)
	contentPart, err := mw.CreatePart(contentHeader)
	if err != nil {
		return nil, fmt.Errorf("create content part: %w", err)
	}
	if _, err := contentPart.Write(upload.Content); err != nil {
		return nil, fmt.Errorf("write content part: %w", err)
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	uploadURL := c.uploadEndpoint + "?uploadType=multipart&fields=id,name,webViewLink"
	req, err := http.NewRequestWithContext(ctx, "POST", uploadURL, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "multipart/related; boundary="+mw.Boundary())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
				Status  string `json:"status"`
			} `json:"error"`
		}
		_ = json.Unmarshal(body, &errResp)
		if errResp.Error.Status == "" {
			errResp.Error.Status = "UPLOAD_FAILED"
		}
		return nil, &domain.ProviderError{
			Status:      resp.StatusCode,
			Code:        errResp.Error.Status,
			Description: errResp.Error.Message,
		}
	}

	var file domain.DriveFile
	if err := json.Unmarshal(body, &file); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &file, nil
}
