package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/keepsake-labs/driveauth-core/internal/core/domain"
	"github.com/keepsake-labs/driveauth-core/internal/core/ports/driven"
	"github.com/keepsake-labs/driveauth-core/internal/core/ports/driving"
)

// Ensure callbackService implements CallbackService
var _ driving.CallbackService = (*callbackService)(nil)

const (
	// successCloseDelay keeps the success flash visible briefly before
	// the popup closes. Deliberately shorter than the error delay.
	successCloseDelay = 1 * time.Second

	// errorCloseDelay gives the user time to read the failure text.
	errorCloseDelay = 3 * time.Second

	// ackWindow is how long the callback waits for the listener's
	// delivery acknowledgment before giving up. The message is not
	// re-sent on timeout - delivery stays at-most-once.
	ackWindow = 2 * time.Second
)

// CallbackServiceConfig holds configuration for the callback service.
type CallbackServiceConfig struct {
	OAuth driving.OAuthService
	Relay driven.MessageRelay

	Logger *slog.Logger
}

// callbackService drives the popup-side handshake state machine:
// awaiting_params -> exchanging -> success_terminal | error_terminal.
// Exactly one AuthMessage is relayed per attempt, by construction:
// every branch produces a single message and relay happens once at the
// end of HandleCallback.
type callbackService struct {
	oauth  driving.OAuthService
	relay  driven.MessageRelay
	logger *slog.Logger
}

// NewCallbackService creates a new callback service.
func NewCallbackService(cfg CallbackServiceConfig) driving.CallbackService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &callbackService{
		oauth:  cfg.OAuth,
		relay:  cfg.Relay,
		logger: logger,
	}
}

// HandleCallback processes one provider redirect. It always reaches a
// terminal state with a finite close delay - detected errors never
// leave the popup hanging.
func (s *callbackService) HandleCallback(ctx context.Context, req driving.CallbackRequest) *driving.CallbackResult {
	var (
		msg    domain.AuthMessage
		result *driving.CallbackResult
	)

	switch {
	case req.Error != "":
		// Provider redirected back with an error (e.g. access_denied).
		// Never attempt an exchange on this path.
		s.logger.Warn("authorization rejected by provider", slog.String("error", req.Error))
		msg = domain.NewErrorMessage(req.Error)
		result = &driving.CallbackResult{
			Outcome:    driving.OutcomeProviderError,
			Detail:     "Authorization failed: " + req.Error,
			CloseDelay: errorCloseDelay,
		}

	case req.Code == "":
		// Neither code nor error: a protocol violation. The original
		// flow swallowed this silently; here the opener is told the
		// attempt was abandoned so it is not left waiting.
		s.logger.Warn("callback protocol violation", slog.String("error", domain.ErrProtocolViolation.Error()))
		msg = domain.NewErrorMessage("authorization_abandoned")
		result = &driving.CallbackResult{
			Outcome:    driving.OutcomeProtocolViolation,
			Detail:     "Authorization response was incomplete. Please try again.",
			CloseDelay: errorCloseDelay,
		}

	default:
		pair, err := s.oauth.Exchange(ctx, driving.ExchangeRequest{Code: req.Code})
		if err != nil {
			msg = domain.NewErrorMessage(err.Error())
			result = &driving.CallbackResult{
				Outcome:    driving.OutcomeExchangeError,
				Detail:     "Authorization failed. Please close this window and try again.",
				CloseDelay: errorCloseDelay,
			}
			break
		}

		msg = domain.NewSuccessMessage(pair)
		result = &driving.CallbackResult{
			Outcome:    driving.OutcomeSuccess,
			Detail:     "Google Drive connected. This window will close shortly.",
			CloseDelay: successCloseDelay,
		}
	}

	result.Relayed, result.Acked = s.relayMessage(ctx, msg)
	if !result.Relayed {
		// Direct navigation or the opener went away: nothing to notify.
		// The page just displays the terminal status text.
		s.logger.Info("no listener for auth message, result stranded",
			slog.String("outcome", string(result.Outcome)),
		)
	}

	return result
}

// relayMessage publishes the attempt's single AuthMessage and waits for
// the listener's delivery ack. Called exactly once per attempt.
func (s *callbackService) relayMessage(ctx context.Context, msg domain.AuthMessage) (relayed, acked bool) {
	env := driven.Envelope{
		ID:   newAttemptID(),
		Data: msg.Encode(),
	}

	receipt, err := s.relay.Publish(ctx, env)
	if err != nil {
		s.logger.Error("relay publish failed", slog.String("error", err.Error()))
		return false, false
	}

	if !receipt.Delivered() {
		return false, false
	}

	acked = receipt.WaitAck(ctx, ackWindow)
	if !acked {
		s.logger.Warn("auth message delivered but not acknowledged",
			slog.String("attempt_id", env.ID),
		)
	}

	return true, acked
}

// newAttemptID produces a random identifier for one authorization
// attempt's envelope.
func newAttemptID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
