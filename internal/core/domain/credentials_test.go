package domain

import "testing"

func TestParseClientCredentials(t *testing.T) {
	blob := []byte(`{"web":{"client_id":"id","client_secret":"secret","redirect_uris":["http://a/callback","http://b/callback"]}}`)

	creds, err := ParseClientCredentials(blob)
	if err != nil {
		t.Fatalf("ParseClientCredentials() error = %v", err)
	}
	if creds.ClientID != "id" || creds.ClientSecret != "secret" {
		t.Errorf("credentials = %+v, want id/secret", creds)
	}
	if creds.RedirectURI != "http://a/callback" {
		t.Errorf("redirect uri = %s, want the first entry", creds.RedirectURI)
	}
}

func TestParseClientCredentials_Invalid(t *testing.T) {
	cases := []struct {
		name string
		blob []byte
	}{
		{"empty", nil},
		{"not json", []byte("nope")},
		{"missing client id", []byte(`{"web":{"client_secret":"s","redirect_uris":["u"]}}`)},
		{"missing secret", []byte(`{"web":{"client_id":"i","redirect_uris":["u"]}}`)},
		{"no redirect uris", []byte(`{"web":{"client_id":"i","client_secret":"s"}}`)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseClientCredentials(tc.blob); err == nil {
				t.Errorf("ParseClientCredentials(%s) succeeded, want error", tc.blob)
			}
		})
	}
}

func TestProviderError(t *testing.T) {
	err := &ProviderError{Status: 400, Code: "invalid_grant", Description: "Bad Request"}
	if err.Temporary() {
		t.Error("a 400 reported as temporary")
	}

	upstream := &ProviderError{Status: 503, Code: "server_error"}
	if !upstream.Temporary() {
		t.Error("a 503 did not report as temporary")
	}
}
