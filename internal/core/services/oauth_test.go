package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/keepsake-labs/driveauth-core/internal/core/domain"
	"github.com/keepsake-labs/driveauth-core/internal/core/ports/driving"
)

var testCreds = &domain.ClientCredentials{
	ClientID:     "client-id",
	ClientSecret: "client-secret",
	RedirectURI:  "http://localhost:8080/google-drive-auth/callback",
}

// mockExchanger implements driven.TokenExchanger for testing
type mockExchanger struct {
	authURL string

	exchangePair *domain.TokenPair
	exchangeErr  error
	exchanged    []string

	refreshPair *domain.TokenPair
	refreshErr  error
	refreshed   []string
}

func (m *mockExchanger) BuildAuthURL(creds *domain.ClientCredentials) string {
	return m.authURL
}

func (m *mockExchanger) ExchangeCode(ctx context.Context, creds *domain.ClientCredentials, code string) (*domain.TokenPair, error) {
	m.exchanged = append(m.exchanged, code)
	if m.exchangeErr != nil {
		return nil, m.exchangeErr
	}
	return m.exchangePair, nil
}

func (m *mockExchanger) RefreshAccessToken(ctx context.Context, creds *domain.ClientCredentials, refreshToken string) (*domain.TokenPair, error) {
	m.refreshed = append(m.refreshed, refreshToken)
	if m.refreshErr != nil {
		return nil, m.refreshErr
	}
	return m.refreshPair, nil
}

func TestOAuthService_Authorize(t *testing.T) {
	exchanger := &mockExchanger{authURL: "https://accounts.google.com/o/oauth2/v2/auth?client_id=client-id"}
	svc := NewOAuthService(OAuthServiceConfig{Credentials: testCreds, Exchanger: exchanger})

	resp, err := svc.Authorize(context.Background())
	if err != nil {
		t.Fatalf("Authorize() error = %v", err)
	}
	if resp.AuthURL != exchanger.authURL {
		t.Errorf("Authorize() url = %s, want %s", resp.AuthURL, exchanger.authURL)
	}
}

func TestOAuthService_Exchange_PreservesProviderBody(t *testing.T) {
	// The provider body must round-trip byte for byte, including fields
	// the parsed struct does not know about.
	raw := `{"access_token":"at","refresh_token":"rt","expires_in":3599,"id_token":"opaque.jwt.value"}`
	exchanger := &mockExchanger{
		exchangePair: &domain.TokenPair{
			AccessToken:  "at",
			RefreshToken: "rt",
			ExpiresIn:    3599,
			Raw:          json.RawMessage(raw),
		},
	}
	svc := NewOAuthService(OAuthServiceConfig{Credentials: testCreds, Exchanger: exchanger})

	pair, err := svc.Exchange(context.Background(), driving.ExchangeRequest{Code: "auth-code"})
	if err != nil {
		t.Fatalf("Exchange() error = %v", err)
	}
	if string(pair.Body()) != raw {
		t.Errorf("Exchange() body = %s, want %s", pair.Body(), raw)
	}
	if len(exchanger.exchanged) != 1 || exchanger.exchanged[0] != "auth-code" {
		t.Errorf("Exchange() provider calls = %v, want [auth-code]", exchanger.exchanged)
	}
}

func TestOAuthService_Exchange_EmptyCode(t *testing.T) {
	exchanger := &mockExchanger{}
	svc := NewOAuthService(OAuthServiceConfig{Credentials: testCreds, Exchanger: exchanger})

	_, err := svc.Exchange(context.Background(), driving.ExchangeRequest{})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Exchange() error = %v, want ErrInvalidInput", err)
	}
	if len(exchanger.exchanged) != 0 {
		t.Errorf("Exchange() called provider %d times, want 0", len(exchanger.exchanged))
	}
}

func TestOAuthService_Refresh(t *testing.T) {
	exchanger := &mockExchanger{
		refreshPair: &domain.TokenPair{AccessToken: "fresh-at", ExpiresIn: 3599},
	}
	svc := NewOAuthService(OAuthServiceConfig{Credentials: testCreds, Exchanger: exchanger})

	resp, err := svc.Refresh(context.Background(), driving.RefreshRequest{RefreshToken: "rt"})
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if resp.AccessToken != "fresh-at" {
		t.Errorf("Refresh() access token = %s, want fresh-at", resp.AccessToken)
	}
}

func TestOAuthService_Refresh_EmptyToken(t *testing.T) {
	// An empty refresh token must short-circuit before the provider is
	// contacted: the caller needs the re-auth signal, not a provider
	// error.
	exchanger := &mockExchanger{}
	svc := NewOAuthService(OAuthServiceConfig{Credentials: testCreds, Exchanger: exchanger})

	_, err := svc.Refresh(context.Background(), driving.RefreshRequest{RefreshToken: ""})
	if !errors.Is(err, domain.ErrMissingRefreshToken) {
		t.Errorf("Refresh() error = %v, want ErrMissingRefreshToken", err)
	}
	if len(exchanger.refreshed) != 0 {
		t.Errorf("Refresh() called provider %d times, want 0", len(exchanger.refreshed))
	}
}

func TestOAuthService_Refresh_ProviderRejection(t *testing.T) {
	provErr := &domain.ProviderError{Status: 400, Code: "invalid_grant", Description: "Token has been expired or revoked."}
	exchanger := &mockExchanger{refreshErr: provErr}
	svc := NewOAuthService(OAuthServiceConfig{Credentials: testCreds, Exchanger: exchanger})

	_, err := svc.Refresh(context.Background(), driving.RefreshRequest{RefreshToken: "revoked"})
	var got *domain.ProviderError
	if !errors.As(err, &got) {
		t.Fatalf("Refresh() error = %v, want *domain.ProviderError", err)
	}
	if got.Code != "invalid_grant" {
		t.Errorf("Refresh() provider code = %s, want invalid_grant", got.Code)
	}
}
