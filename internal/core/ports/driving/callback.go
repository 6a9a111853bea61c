package driving

import (
	"context"
	"time"
)

// CallbackOutcome is the terminal state of one callback attempt.
type CallbackOutcome string

const (
	// OutcomeSuccess - code exchanged, success message relayed.
	OutcomeSuccess CallbackOutcome = "success"

	// OutcomeProviderError - the provider redirected back with an error
	// parameter (e.g. access_denied). No exchange was attempted.
	OutcomeProviderError CallbackOutcome = "provider_error"

	// OutcomeExchangeError - the exchange call failed.
	OutcomeExchangeError CallbackOutcome = "exchange_error"

	// OutcomeProtocolViolation - neither code nor error was present.
	OutcomeProtocolViolation CallbackOutcome = "protocol_violation"
)

// CallbackService runs the popup-side handshake: it drives the
// awaiting_params -> exchanging -> terminal state machine and relays
// exactly one AuthMessage per attempt.
type CallbackService interface {
	HandleCallback(ctx context.Context, req CallbackRequest) *CallbackResult
}

// CallbackRequest carries the two recognized callback query parameters.
type CallbackRequest struct {
	Code  string
	Error string
}

// CallbackResult tells the callback page what to display and when to
// close. HandleCallback always terminates: every outcome carries a
// finite close delay so the popup never stays open indefinitely.
type CallbackResult struct {
	Outcome CallbackOutcome

	// Detail is the user-facing status line for the terminal page.
	Detail string

	// Relayed reports whether the result message reached a listener.
	// False means no opener was subscribed and the result is stranded.
	Relayed bool

	// Acked reports whether the listener confirmed delivery before the
	// acknowledgment window closed.
	Acked bool

	// CloseDelay is how long the page should stay visible before
	// closing itself. Short on success, longer on error paths.
	CloseDelay time.Duration
}
