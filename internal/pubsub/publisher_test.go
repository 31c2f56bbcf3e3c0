package pubsub

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"gameon/internal/config"
	"gameon/internal/model"

	ps "cloud.google.com/go/pubsub"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisherInvalidProject(t *testing.T) {
	cfg := &config.Config{GCPProjectID: ""}
	if _, err := NewPublisher(context.Background(), cfg); err == nil {
		t.Fatal("expected error when project ID is empty")
	}
}

func TestNopPublisher(t *testing.T) {
	id, err := NopPublisher{}.Publish(context.Background(), "bills", []byte("x"))
	assert.NoError(t, err)
	assert.Empty(t, id)
}

func TestBillEventEncode(t *testing.T) {
	b := model.Bill{
		ID:          "12",
		GameZoneID:  "pc",
		StartTime:   1000,
		EndTime:     3601000,
		FinalAmount: decimal.NewFromInt(90),
		CreatedBy:   "user-2",
	}
	data, err := NewBillEvent(EventBillCreated, b, "user-2").Encode()
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "bill.created", got["type"])
	assert.Equal(t, "12", got["bill_id"])
	assert.Equal(t, "90.00", got["final_amount"])
	assert.Equal(t, float64(3601000), got["end_time"])
}

func TestPublishWithEmulator(t *testing.T) {
	emulator := os.Getenv("PUBSUB_EMULATOR_HOST")
	if emulator == "" {
		t.Skip("PUBSUB_EMULATOR_HOST is not set, skip emulator integration test")
	}

	ctx := context.Background()
	cfg := &config.Config{GCPProjectID: "test-project", PubSubEmulatorHost: emulator}
	pub, err := NewPublisher(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to create PubSubPublisher: %v", err)
	}
	defer pub.Close()

	topicName := "test-bill-events-" + time.Now().Format("150405")
	topic, err := pub.client.CreateTopic(ctx, topicName)
	if err != nil {
		t.Fatalf("failed to create topic: %v", err)
	}
	sub, err := pub.client.CreateSubscription(ctx, topicName+"-sub", ps.SubscriptionConfig{Topic: topic})
	if err != nil {
		t.Fatalf("failed to create subscription: %v", err)
	}

	payload, err := NewBillEvent(EventBillDeleted, model.Bill{ID: "3"}, "user-1").Encode()
	require.NoError(t, err)
	msgID, err := pub.Publish(ctx, topicName, payload)
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if msgID == "" {
		t.Fatal("expected non-empty message ID")
	}

	recvCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	c := make(chan []byte, 1)
	go func() {
		sub.Receive(recvCtx, func(ctx context.Context, m *ps.Message) {
			c <- m.Data
			m.Ack()
			cancel()
		})
	}()

	select {
	case data := <-c:
		assert.JSONEq(t, string(payload), string(data))
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for message from emulator subscription")
	}
}
