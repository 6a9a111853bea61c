package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"github.com/keepsake-labs/driveauth-core/internal/core/domain"
	"github.com/keepsake-labs/driveauth-core/internal/core/ports/driven"
)

const (
	// commitLockName serializes token commits across instances.
	commitLockName = "gdrive:auth:commit"

	// commitLockTTL bounds how long a crashed holder can block commits.
	commitLockTTL = 5 * time.Second
)

// AuthListenerConfig holds configuration for the auth listener.
type AuthListenerConfig struct {
	Relay    driven.MessageRelay
	Store    driven.TokenStore
	Notifier driven.Notifier

	// Lock is optional. When present, token commits are serialized
	// across instances; without it concurrent commits fall back to
	// last-write-wins.
	Lock driven.DistributedLock

	Logger *slog.Logger
}

// AuthListener is the opener-side subscriber of the handshake. It is
// constructed once by the composition root and owns an explicit
// Start/Stop lifecycle, so mounting it twice is a programming error
// rather than a silent duplicate subscription.
//
// It is the only writer of the token store on the authorization path:
// a commit happens if and only if a received message parses as an
// object whose type equals the success literal exactly and whose
// tokens.refresh_token is a non-empty string.
type AuthListener struct {
	relay    driven.MessageRelay
	store    driven.TokenStore
	notifier driven.Notifier
	lock     driven.DistributedLock
	logger   *slog.Logger

	mu      sync.Mutex
	started bool
	stop    func()
	done    chan struct{}
}

// NewAuthListener creates a new auth listener.
func NewAuthListener(cfg AuthListenerConfig) *AuthListener {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthListener{
		relay:    cfg.Relay,
		store:    cfg.Store,
		notifier: cfg.Notifier,
		lock:     cfg.Lock,
		logger:   logger,
	}
}

// Start subscribes to the relay and begins processing messages.
// Calling Start on a running listener returns ErrInvalidInput.
func (l *AuthListener) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.started {
		return domain.ErrInvalidInput
	}

	ch, stop, err := l.relay.Subscribe(ctx)
	if err != nil {
		return err
	}

	l.started = true
	l.stop = stop
	l.done = make(chan struct{})

	go l.run(ctx, ch)

	l.logger.Info("auth listener started")
	return nil
}

// Stop tears down the subscription and waits for the processing loop
// to drain. Safe to call on a stopped listener.
func (l *AuthListener) Stop() {
	l.mu.Lock()
	if !l.started {
		l.mu.Unlock()
		return
	}
	stop, done := l.stop, l.done
	l.started = false
	l.mu.Unlock()

	stop()
	<-done

	l.logger.Info("auth listener stopped")
}

func (l *AuthListener) run(ctx context.Context, ch <-chan driven.Envelope) {
	defer close(l.done)

	for env := range ch {
		l.handle(ctx, env)
	}
}

// handle processes one relayed envelope. Every envelope is acked:
// the ack confirms delivery, not acceptance.
func (l *AuthListener) handle(ctx context.Context, env driven.Envelope) {
	defer func() {
		if err := l.relay.Ack(ctx, env.ID); err != nil {
			l.logger.Warn("ack failed", slog.String("attempt_id", env.ID), slog.String("error", err.Error()))
		}
	}()

	payload, ok := parseMessagePayload(env.Data)
	if !ok {
		// Not for us: unparseable, not an object, or an unknown type.
		// Ignored silently, store untouched.
		return
	}

	switch payload.Get("type").Str {
	case domain.MessageTypeSuccess:
		l.handleSuccess(ctx, payload)
	case domain.MessageTypeError:
		detail := payload.Get("error").Str
		l.logger.Warn("authorization failed", slog.String("error", detail))
		l.notifier.Notify(ctx, driven.Notification{
			Level:   driven.LevelError,
			Message: "Google Drive authorization failed: " + detail,
		})
	}
}

func (l *AuthListener) handleSuccess(ctx context.Context, payload gjson.Result) {
	refresh := payload.Get("tokens.refresh_token")
	if refresh.Type != gjson.String || refresh.Str == "" {
		// The provider only returns a refresh token on the first
		// consent grant.
		l.logger.Info("success message without refresh token (re-consent)")
		l.notifier.Notify(ctx, driven.Notification{
			Level:   driven.LevelWarn,
			Message: "No refresh token received. Revoke the app's access in your Google account and authorize again.",
		})
		return
	}

	if err := l.commit(ctx, refresh.Str); err != nil {
		l.logger.Error("failed to store refresh token", slog.String("error", err.Error()))
		l.notifier.Notify(ctx, driven.Notification{
			Level:   driven.LevelError,
			Message: "Failed to save Google Drive credentials.",
		})
		return
	}

	l.logger.Info("refresh token committed")
	l.notifier.Notify(ctx, driven.Notification{
		Event:   driven.EventAuthUpdated,
		Level:   driven.LevelInfo,
		Message: "Google Drive connected.",
	})
}

// commit writes the refresh token, serialized by the distributed lock
// when one is configured. If the lock cannot be acquired within its
// TTL the write proceeds anyway: last write wins beats losing a fresh
// credential.
func (l *AuthListener) commit(ctx context.Context, token string) error {
	if l.lock != nil {
		acquired, err := l.lock.Acquire(ctx, commitLockName, commitLockTTL)
		if err != nil {
			l.logger.Warn("commit lock unavailable", slog.String("error", err.Error()))
		} else if acquired {
			defer func() {
				_ = l.lock.Release(ctx, commitLockName)
			}()
		} else {
			l.logger.Warn("commit lock held elsewhere, writing anyway")
		}
	}

	return l.store.Set(ctx, token)
}

// parseMessagePayload validates a relayed payload at the boundary.
// Accepts a JSON object directly, or a JSON string that itself contains
// a JSON object (the double-encoded form some senders produce). Parse
// failures and non-object payloads are rejected.
func parseMessagePayload(data []byte) (gjson.Result, bool) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, false
	}

	v := gjson.ParseBytes(data)
	if v.Type == gjson.String {
		if !gjson.Valid(v.Str) {
			return gjson.Result{}, false
		}
		v = gjson.Parse(v.Str)
	}

	if !v.IsObject() {
		return gjson.Result{}, false
	}

	return v, true
}
