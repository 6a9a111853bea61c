package domain

import "encoding/json"

// AuthMessage type literals. These are a stable wire format shared with
// the storefront frontend - do not rename.
const (
	MessageTypeSuccess = "GOOGLE_DRIVE_AUTH_SUCCESS"
	MessageTypeError   = "GOOGLE_DRIVE_AUTH_ERROR"
)

// AuthMessage is the one-shot message relayed from a callback attempt
// to the auth listener: {type, tokens?, error?}. Tokens carries the
// provider token response verbatim on the success variant. Exactly one
// AuthMessage is emitted per authorization attempt.
type AuthMessage struct {
	Type   string          `json:"type"`
	Tokens json.RawMessage `json:"tokens,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// NewSuccessMessage builds the success variant carrying the full token
// payload.
func NewSuccessMessage(tokens *TokenPair) AuthMessage {
	return AuthMessage{
		Type:   MessageTypeSuccess,
		Tokens: json.RawMessage(tokens.Body()),
	}
}

// NewErrorMessage builds the error variant carrying the raw error text.
func NewErrorMessage(detail string) AuthMessage {
	return AuthMessage{
		Type:  MessageTypeError,
		Error: detail,
	}
}

// Encode marshals the message for the relay. AuthMessage is a plain
// struct so marshaling cannot fail in practice.
func (m AuthMessage) Encode() []byte {
	data, _ := json.Marshal(m)
	return data
}
