package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/keepsake-labs/driveauth-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.Notifier = (*Notifier)(nil)

const eventsChannel = "gdrive:events"

// Notifier logs auth lifecycle events and, when Redis is available,
// broadcasts them so other components can react to token changes.
type Notifier struct {
	logger *slog.Logger
	client *redis.Client
}

// NewNotifier creates a notifier. client may be nil, in which case
// events are only logged.
func NewNotifier(logger *slog.Logger, client *redis.Client) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{logger: logger, client: client}
}

// Notify records one notification. Broadcast failures are logged, not
// returned.
func (n *Notifier) Notify(ctx context.Context, notification driven.Notification) {
	attrs := []any{
		slog.String("event", notification.Event),
		slog.String("message", notification.Message),
	}
	switch notification.Level {
	case driven.LevelError:
		n.logger.Error("auth event", attrs...)
	case driven.LevelWarn:
		n.logger.Warn("auth event", attrs...)
	default:
		n.logger.Info("auth event", attrs...)
	}

	if n.client == nil || notification.Event == "" {
		return
	}

	payload, err := json.Marshal(struct {
		Event     string `json:"event"`
		Level     string `json:"level"`
		Message   string `json:"message"`
		Timestamp int64  `json:"timestamp"`
	}{
		Event:     notification.Event,
		Level:     notification.Level,
		Message:   notification.Message,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		n.logger.Error("marshal notification", slog.String("error", err.Error()))
		return
	}

	if err := n.client.Publish(ctx, eventsChannel, payload).Err(); err != nil {
		n.logger.Error("publish notification", slog.String("error", err.Error()))
	}
}
