package redis

import (
	"context"
	"testing"
	"time"

	"github.com/keepsake-labs/driveauth-core/internal/core/ports/driven"
)

func TestRelay_PublishWithoutSubscriber(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	relay := NewRelay(client)
	receipt, err := relay.Publish(context.Background(), driven.Envelope{ID: "a-1", Data: []byte(`{}`)})
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if receipt.Delivered() {
		t.Error("Delivered() = true with no subscriber, want false")
	}
	// The ack subscription must be released on the undelivered path,
	// not held open until a WaitAck that may never come.
	receivers, err := client.Publish(context.Background(), ackChannel, "a-1").Result()
	if err != nil {
		t.Fatalf("Publish(ack) error = %v", err)
	}
	if receivers != 0 {
		t.Errorf("ack channel has %d subscribers after undelivered publish, want 0", receivers)
	}

	if receipt.WaitAck(context.Background(), 50*time.Millisecond) {
		t.Error("WaitAck() = true for an undelivered envelope")
	}
}

func TestRelay_RoundTripWithAck(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	relay := NewRelay(client)
	ctx := context.Background()

	ch, stop, err := relay.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	defer stop()

	payload := []byte(`{"type":"GOOGLE_DRIVE_AUTH_SUCCESS","tokens":{"refresh_token":"rt"}}`)
	receipt, err := relay.Publish(ctx, driven.Envelope{ID: "a-2", Data: payload})
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if !receipt.Delivered() {
		t.Fatal("Delivered() = false with a live subscriber")
	}

	var env driven.Envelope
	select {
	case env = <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("envelope not received")
	}
	if env.ID != "a-2" || string(env.Data) != string(payload) {
		t.Errorf("received envelope = %+v, want the published one", env)
	}

	if err := relay.Ack(ctx, env.ID); err != nil {
		t.Fatalf("Ack() error = %v", err)
	}
	if !receipt.WaitAck(ctx, 2*time.Second) {
		t.Error("WaitAck() = false after ack")
	}
}

func TestRelay_WaitAckTimesOut(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	relay := NewRelay(client)
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

	if receipt.WaitAck(ctx, 100*time.Millisecond) {
		t.Error("WaitAck() = true, want timeout without ack")
	}
}
