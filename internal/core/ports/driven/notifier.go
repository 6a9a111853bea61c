package driven

import "context"

// EventAuthUpdated is dispatched with no payload after a refresh token
// is committed, so other application components can re-check
// availability. Part of the external contract - do not rename.
const EventAuthUpdated = "google-drive-auth-updated"

// Notification levels.
const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Notification is a user-visible status surfaced by the auth flow,
// optionally paired with an application event.
type Notification struct {
	// Event names an application event to dispatch, or is empty.
	Event string

	Level   string
	Message string
}

// Notifier surfaces notifications to the user and dispatches
// application events. Implementations must not block the caller.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
