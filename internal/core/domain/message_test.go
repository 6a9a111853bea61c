package domain

import (
	"encoding/json"
	"testing"
)

func TestNewSuccessMessage_CarriesProviderBody(t *testing.T) {
	raw := `{"access_token":"at","refresh_token":"rt","id_token":"extra"}`
	pair := &TokenPair{AccessToken: "at", RefreshToken: "rt", Raw: json.RawMessage(raw)}

	msg := NewSuccessMessage(pair)
	if msg.Type != MessageTypeSuccess {
		t.Errorf("type = %s, want %s", msg.Type, MessageTypeSuccess)
	}
	if string(msg.Tokens) != raw {
		t.Errorf("tokens = %s, want provider body verbatim", msg.Tokens)
	}

	var decoded AuthMessage
	if err := json.Unmarshal(msg.Encode(), &decoded); err != nil {
		t.Fatalf("decode encoded message: %v", err)
	}
	if decoded.Type != MessageTypeSuccess || string(decoded.Tokens) != raw {
		t.Errorf("round trip changed the message: %+v", decoded)
	}
}

func TestNewErrorMessage_OmitsTokens(t *testing.T) {
	msg := NewErrorMessage("access_denied")

	data := msg.Encode()
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("decode encoded message: %v", err)
	}
	if _, present := fields["tokens"]; present {
		t.Error("error variant carries a tokens field")
	}
	if string(fields["type"]) != `"`+MessageTypeError+`"` {
		t.Errorf("type field = %s, want %s", fields["type"], MessageTypeError)
	}
}

func TestTokenPair_BodyFallback(t *testing.T) {
	pair := &TokenPair{AccessToken: "at", ExpiresIn: 3599}

	var decoded TokenPair
	if err := json.Unmarshal(pair.Body(), &decoded); err != nil {
		t.Fatalf("decode fallback body: %v", err)
	}
	if decoded.AccessToken != "at" || decoded.ExpiresIn != 3599 {
		t.Errorf("fallback body = %+v, want parsed fields", decoded)
	}
}
