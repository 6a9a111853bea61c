package driven

import (
	"context"
	"time"
)

// Envelope wraps one relayed payload. Data is the AuthMessage JSON and
// is opaque to the relay - subscribers validate it at their boundary.
type Envelope struct {
	ID   string
	Data []byte
}

// PublishReceipt reports what happened to a published envelope.
type PublishReceipt interface {
	// Delivered reports whether at least one subscriber was listening
	// when the envelope was published. This is the capability check for
	// "does an opener exist": false means the result had nowhere to go.
	Delivered() bool

	// WaitAck blocks until the subscriber acknowledges the envelope or
	// the timeout elapses, and releases any resources held for the
	// wait. Returns true only on an acknowledged delivery.
	WaitAck(ctx context.Context, timeout time.Duration) bool
}

// MessageRelay is the one-shot channel between a callback attempt and
// the auth listener. Delivery is at-most-once with no retry: if no
// subscriber is listening the message is dropped and the user must
// restart the flow. The acknowledgment only confirms delivery - it
// never triggers a re-send.
type MessageRelay interface {
	// Publish sends one envelope, fire-and-forget.
	Publish(ctx context.Context, env Envelope) (PublishReceipt, error)

	// Subscribe registers the single long-lived consumer. The returned
	// stop function tears the subscription down and closes the channel.
	Subscribe(ctx context.Context) (<-chan Envelope, func(), error)

	// Ack confirms delivery of the envelope with the given ID.
	// Acking an unknown or already-acked ID is a no-op.
	Ack(ctx context.Context, id string) error
}
