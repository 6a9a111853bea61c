package domain

import "encoding/json"

// TokenPair is the identity provider's token response. Raw preserves
// the provider body byte for byte; the parsed fields are a convenience
// view over it. The exchange endpoint returns Raw unmodified so no
// provider field is ever renamed or dropped. refresh_token is only
// present on the user's first consent grant for this client.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	Scope        string `json:"scope,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// Body returns the provider response verbatim when available, falling
// back to marshaling the parsed fields for pairs built in tests.
func (t *TokenPair) Body() []byte {
	if len(t.Raw) > 0 {
		return t.Raw
	}
	body, _ := json.Marshal(t)
	return body
}

// DriveFile describes a file created through the Drive upload path.
type DriveFile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	WebViewLink string `json:"webViewLink,omitempty"`
}
