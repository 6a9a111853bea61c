package domain

import (
	"encoding/json"
	"fmt"
)

// ClientCredentials holds the OAuth application identity used for every
// token-endpoint request. Loaded once per process from the
// provider-supplied JSON blob; immutable for the process lifetime.
type ClientCredentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// credentialsFile mirrors the downloadable Google client configuration:
// {"web": {"client_id": ..., "client_secret": ..., "redirect_uris": [...]}}
type credentialsFile struct {
	Web struct {
		ClientID     string   `json:"client_id"`
		ClientSecret string   `json:"client_secret"`
		RedirectURIs []string `json:"redirect_uris"`
	} `json:"web"`
}

// ParseClientCredentials parses the provider-supplied credential blob.
// The first redirect URI is the one registered for the callback page.
// A missing or incomplete blob is a deployment precondition failure,
// not a runtime error path.
func ParseClientCredentials(blob []byte) (*ClientCredentials, error) {
	if len(blob) == 0 {
		return nil, fmt.Errorf("credential blob is empty")
	}

	var file credentialsFile
	if err := json.Unmarshal(blob, &file); err != nil {
		return nil, fmt.Errorf("parse credential blob: %w", err)
	}

	if file.Web.ClientID == "" || file.Web.ClientSecret == "" {
		return nil, fmt.Errorf("credential blob is missing client_id or client_secret")
	}
	if len(file.Web.RedirectURIs) == 0 {
		return nil, fmt.Errorf("credential blob has no redirect_uris")
	}

	return &ClientCredentials{
		ClientID:     file.Web.ClientID,
		ClientSecret: file.Web.ClientSecret,
		RedirectURI:  file.Web.RedirectURIs[0],
	}, nil
}
