package memory

import (
	"context"
	"sync"
	"time"

	"github.com/keepsake-labs/driveauth-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.MessageRelay = (*Relay)(nil)

const subscriberBuffer = 16

// Relay is an in-process message relay. It carries the same
// at-most-once semantics as the Redis relay: envelopes published with
// no subscriber, or to a subscriber with a full buffer, are dropped.
type Relay struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan driven.Envelope
	acks   map[string]chan struct{}
}

// NewRelay creates a new in-memory relay.
func NewRelay() *Relay {
	return &Relay{
		subs: make(map[int]chan driven.Envelope),
		acks: make(map[string]chan struct{}),
	}
}

// Publish delivers the envelope to all current subscribers without
// blocking.
func (r *Relay) Publish(_ context.Context, env driven.Envelope) (driven.PublishReceipt, error) {
	r.mu.Lock()
	delivered := false
	for _, sub := range r.subs {
		select {
		case sub <- env:
			delivered = true
		default:
		}
	}

	// Only a delivered envelope can be acked; registering an ack slot
	// for an undelivered one would leave it in the map forever.
	var ack chan struct{}
	if delivered {
		ack = make(chan struct{})
		r.acks[env.ID] = ack
	}
	r.mu.Unlock()

	return &receipt{delivered: delivered, ack: ack}, nil
}

// Subscribe returns a channel of incoming envelopes. The returned
// cancel function stops delivery and closes the channel.
func (r *Relay) Subscribe(_ context.Context) (<-chan driven.Envelope, func(), error) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	sub := make(chan driven.Envelope, subscriberBuffer)
	r.subs[id] = sub
	r.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs, id)
			r.mu.Unlock()
			close(sub)
		})
	}
	return sub, cancel, nil
}

// Ack signals the publisher waiting on the envelope's receipt.
func (r *Relay) Ack(_ context.Context, id string) error {
	r.mu.Lock()
	ack, ok := r.acks[id]
	if ok {
		delete(r.acks, id)
	}
	r.mu.Unlock()
	if ok {
		close(ack)
	}
	return nil
}

type receipt struct {
	delivered bool
	ack       chan struct{}
}

var _ driven.PublishReceipt = (*receipt)(nil)

func (r *receipt) Delivered() bool {
	return r.delivered
}

func (r *receipt) WaitAck(ctx context.Context, timeout time.Duration) bool {
	if r.ack == nil {
		return false
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-r.ack:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}
