package memory

import (
	"context"
	"testing"
	"time"

	"github.com/keepsake-labs/driveauth-core/internal/core/ports/driven"
)

func TestRelay_PublishWithoutSubscriber(t *testing.T) {
	relay := NewRelay()

	receipt, err := relay.Publish(context.Background(), driven.Envelope{ID: "a-1", Data: []byte(`{}`)})
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if receipt.Delivered() {
		t.Error("Delivered() = true with no subscriber, want false")
	}
	if receipt.WaitAck(context.Background(), 50*time.Millisecond) {
		t.Error("WaitAck() = true for an undelivered envelope")
	}

	// An undelivered envelope must not leave an ack slot behind.
	relay.mu.Lock()
	pending := len(relay.acks)
	relay.mu.Unlock()
	if pending != 0 {
		t.Errorf("pending acks = %d after undelivered publish, want 0", pending)
	}
}

func TestRelay_RoundTripWithAck(t *testing.T) {
	relay := NewRelay()
	ctx := context.Background()

	ch, stop, err := relay.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	defer stop()

	receipt, err := relay.Publish(ctx, driven.Envelope{ID: "a-2", Data: []byte(`{"type":"x"}`)})
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if !receipt.Delivered() {
		t.Fatal("Delivered() = false with a live subscriber")
	}

	env := <-ch
	if env.ID != "a-2" {
		t.Errorf("envelope id = %s, want a-2", env.ID)
	}

	if err := relay.Ack(ctx, env.ID); err != nil {
		t.Fatalf("Ack() error = %v", err)
	}
	if !receipt.WaitAck(ctx, time.Second) {
		t.Error("WaitAck() = false after ack")
	}
}

func TestRelay_WaitAckTimesOut(t *testing.T) {
	relay := NewRelay()
	ctx := context.Background()

	ch, stop, err := relay.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	defer stop()

	receipt, err := relay.Publish(ctx, driven.Envelope{ID: "a-3", Data: []byte(`{}`)})
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	<-ch

	if receipt.WaitAck(ctx, 50*time.Millisecond) {
		t.Error("WaitAck() = true, want timeout without ack")
	}
}

func TestRelay_AckUnknownID(t *testing.T) {
	relay := NewRelay()
	if err := relay.Ack(context.Background(), "never-published"); err != nil {
		t.Errorf("Ack() of unknown id error = %v, want nil", err)
	}
}

func TestRelay_CancelStopsDelivery(t *testing.T) {
	relay := NewRelay()
	ctx := context.Background()

	ch, stop, err := relay.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	stop()

	if _, ok := <-ch; ok {
		t.Error("channel still open after cancel")
	}

	receipt, err := relay.Publish(ctx, driven.Envelope{ID: "a-4", Data: []byte(`{}`)})
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if receipt.Delivered() {
		t.Error("Delivered() = true after the subscriber cancelled")
	}
}
