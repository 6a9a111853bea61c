package driving

import "context"

// UploadService is the server-side upload path: it reads the stored
// refresh token, mints a fresh access token per request, and uploads
// the file to the storage provider.
type UploadService interface {
	// Upload stores one file. Fails with domain.ErrNoStoredToken when
	// no refresh token has been authorized yet.
	Upload(ctx context.Context, req UploadFileRequest) (*UploadFileResponse, error)
}

// UploadFileRequest describes the file to upload.
type UploadFileRequest struct {
	Name     string
	MimeType string
	Content  []byte
	FolderID string
}

// UploadFileResponse identifies the created file.
type UploadFileResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	WebViewLink string `json:"webViewLink,omitempty"`
}
