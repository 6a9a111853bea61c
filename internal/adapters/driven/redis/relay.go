package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/keepsake-labs/driveauth-core/internal/core/ports/driven"
	"github.com/redis/go-redis/v9"
)

// Verify interface compliance
var _ driven.MessageRelay = (*Relay)(nil)

const (
	eventsChannel = "gdrive:auth:events"
	ackChannel    = "gdrive:auth:ack"
)

// wireEnvelope is the pub/sub wire format. Data round-trips through
// base64 via encoding/json.
type wireEnvelope struct {
	ID   string `json:"id"`
	Data []byte `json:"data"`
}

// Relay carries auth messages between processes over Redis pub/sub.
// Delivery is at-most-once: a publish with no live subscriber is lost,
// and Delivered reports whether anyone was listening at publish time.
type Relay struct {
	client *redis.Client
}

// NewRelay creates a new Redis-backed message relay.
func NewRelay(client *redis.Client) *Relay {
	return &Relay{client: client}
}

// Publish sends an envelope to all current subscribers. The ack
// subscription is opened before publishing so an immediate ack from a
// fast consumer cannot be missed.
func (r *Relay) Publish(ctx context.Context, env driven.Envelope) (driven.PublishReceipt, error) {
	payload, err := json.Marshal(wireEnvelope{ID: env.ID, Data: env.Data})
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}

	ackSub := r.client.Subscribe(ctx, ackChannel)
	if _, err := ackSub.Receive(ctx); err != nil {
		ackSub.Close()
		return nil, fmt.Errorf("subscribe ack channel: %w", err)
	}

	receivers, err := r.client.Publish(ctx, eventsChannel, payload).Result()
	if err != nil {
		ackSub.Close()
		return nil, fmt.Errorf("publish envelope: %w", err)
	}

	if receivers == 0 {
		// Nobody will ever ack. Release the subscription now rather
		// than rely on the caller reaching WaitAck.
		ackSub.Close()
		return &receipt{id: env.ID}, nil
	}

	return &receipt{
		id:        env.ID,
		delivered: true,
		ackSub:    ackSub,
	}, nil
}

// Subscribe returns a channel of incoming envelopes. The returned
// cancel function stops delivery and closes the channel.
func (r *Relay) Subscribe(ctx context.Context) (<-chan driven.Envelope, func(), error) {
	sub := r.client.Subscribe(ctx, eventsChannel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, nil, fmt.Errorf("subscribe events channel: %w", err)
	}

	out := make(chan driven.Envelope)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var env wireEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				continue
			}
			select {
			case out <- driven.Envelope{ID: env.ID, Data: env.Data}:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() { sub.Close() }
	return out, cancel, nil
}

// Ack notifies the publisher that the envelope was processed.
func (r *Relay) Ack(ctx context.Context, id string) error {
	if err := r.client.Publish(ctx, ackChannel, id).Err(); err != nil {
		return fmt.Errorf("publish ack: %w", err)
	}
	return nil
}

// Ping checks if the Redis backend is healthy.
func (r *Relay) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// receipt tracks one published envelope and its pending ack.
type receipt struct {
	id        string
	delivered bool

	mu     sync.Mutex
	ackSub *redis.PubSub
}

var _ driven.PublishReceipt = (*receipt)(nil)

// Delivered reports whether at least one subscriber received the
// envelope.
func (r *receipt) Delivered() bool {
	return r.delivered
}

// WaitAck blocks until the consumer acks this envelope or the timeout
// elapses. The ack subscription is released either way.
func (r *receipt) WaitAck(ctx context.Context, timeout time.Duration) bool {
	r.mu.Lock()
	sub := r.ackSub
	r.ackSub = nil
	r.mu.Unlock()
	if sub == nil {
		return false
	}
	defer sub.Close()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case msg, ok := <-sub.Channel():
			if !ok {
				return false
			}
			if msg.Payload == r.id {
				return true
			}
		case <-timer.C:
			return false
		case <-ctx.Done():
			return false
		}
	}
}
