package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/keepsake-labs/driveauth-core/internal/core/domain"
	"github.com/keepsake-labs/driveauth-core/internal/core/ports/driven"
)

const (
	defaultAuthEndpoint  = "https://accounts.google.com/o/oauth2/v2/auth"
	defaultTokenEndpoint = "https://oauth2.googleapis.com/token"

	// drive.file grants access only to files the app creates or opens.
	scopeDriveFile = "https://www.googleapis.com/auth/drive.file"
)

// Ensure OAuthClient implements the interface.
var _ driven.TokenExchanger = (*OAuthClient)(nil)

// OAuthClient talks to Google's OAuth 2.0 endpoints.
type OAuthClient struct {
	httpClient    *http.Client
	authEndpoint  string
	tokenEndpoint string
}

// Option configures an OAuthClient.
type Option func(*OAuthClient)

// WithEndpoints overrides the Google endpoints, used in tests.
func WithEndpoints(authEndpoint, tokenEndpoint string) Option {
	return func(c *OAuthClient) {
		c.authEndpoint = authEndpoint
		c.tokenEndpoint = tokenEndpoint
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *OAuthClient) {
		c.httpClient = client
	}
}

// NewOAuthClient creates a new Google OAuth client.
func NewOAuthClient(opts ...Option) *OAuthClient {
	c := &OAuthClient{
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		authEndpoint:  defaultAuthEndpoint,
		tokenEndpoint: defaultTokenEndpoint,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BuildAuthURL constructs the Google consent screen URL.
// access_type=offline and prompt=consent together guarantee a refresh
// token is issued on every completed grant, not just the first one.
func (c *OAuthClient) BuildAuthURL(creds *domain.ClientCredentials) string {
	params := url.Values{
		"client_id":     {creds.ClientID},
		"redirect_uri":  {creds.RedirectURI},
		"response_type": {"code"},
		"scope":         {scopeDriveFile},
		"access_type":   {"offline"},
		"prompt":        {"consent"},
	}
	return c.authEndpoint + "?" + params.Encode()
}

// ExchangeCode exchanges an authorization code for tokens.
func (c *OAuthClient) ExchangeCode(ctx context.Context, creds *domain.ClientCredentials, code string) (*domain.TokenPair, error) {
	params := url.Values{
		"client_id":     {creds.ClientID},
		"client_secret": {creds.ClientSecret},
		"code":          {code},
		"redirect_uri":  {creds.RedirectURI},
		"grant_type":    {"authorization_code"},
	}
	return c.postToken(ctx, params)
}

// RefreshAccessToken trades a refresh token for a fresh access token.
func (c *OAuthClient) RefreshAccessToken(ctx context.Context, creds *domain.ClientCredentials, refreshToken string) (*domain.TokenPair, error) {
	params := url.Values{
		"client_id":     {creds.ClientID},
		"client_secret": {creds.ClientSecret},
		"refresh_token": {refreshToken},
		"grant_type":    {"refresh_token"},
	}
	return c.postToken(ctx, params)
}

func (c *OAuthClient) postToken(ctx context.Context, params url.Values) (*domain.TokenPair, error) {
	req, err := http.NewRequestWithContext(ctx, "POST",
		c.tokenEndpoint,
		strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

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
			Error     string `json:"error"`
			ErrorDesc string `json:"error_description"`
		}
		_ = json.Unmarshal(body, &errResp)
		if errResp.Error == "" {
			errResp.Error = "server_error"
			errResp.ErrorDesc = strings.TrimSpace(string(body))
		}
		return nil, &domain.ProviderError{
			Status:      resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDesc,
		}
	}

	var pair domain.TokenPair
	if err := json.Unmarshal(body, &pair); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	// The raw body is kept so callers can forward Google's response
	// unchanged, extra fields included.
	pair.Raw = json.RawMessage(body)

	return &pair, nil
}
