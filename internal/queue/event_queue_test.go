package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, deliveries <-chan Delivery) Delivery {
	t.Helper()
	select {
	case d := <-deliveries:
		return d
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delivery")
		return Delivery{}
	}
}

func TestPublishSubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewEventQueue(16)
	deliveries, err := q.Subscribe(ctx)
	require.NoError(t, err)

	event := &Event{Type: "new_message", Room: "global", Payload: "hi"}
	require.NoError(t, q.Publish(ctx, event))

	got := receive(t, deliveries)
	assert.Equal(t, event, got.Event)
	got.Ack()
}

func TestPublishPreservesOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewEventQueue(16)
	deliveries, err := q.Subscribe(ctx)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Publish(ctx, &Event{Type: "typing", Room: "global", Payload: i}))
	}

	for i := 0; i < 5; i++ {
		got := receive(t, deliveries)
		assert.Equal(t, i, got.Event.Payload)
		got.Ack()
	}
}

// Nack(requeue) 把事件放回隊列，之後會再投遞一次
func TestNackRequeuesDelivery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewEventQueue(16)
	deliveries, err := q.Subscribe(ctx)
	require.NoError(t, err)

	event := &Event{Type: "new_notification", Room: "user:42"}
	require.NoError(t, q.Publish(ctx, event))

	first := receive(t, deliveries)
	first.Nack(true)

	second := receive(t, deliveries)
	assert.Equal(t, event, second.Event)
	second.Ack()
}

func TestNackWithoutRequeueDrops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewEventQueue(16)
	deliveries, err := q.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, q.Publish(ctx, &Event{Type: "typing", Room: "global"}))

	got := receive(t, deliveries)
	got.Nack(false)

	select {
	case d := <-deliveries:
		t.Fatalf("unexpected redelivery: %+v", d.Event)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPublishHonorsContextWhenFull(t *testing.T) {
	q := NewEventQueue(1)

	require.NoError(t, q.Publish(context.Background(), &Event{Type: "a", Room: "global"}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := q.Publish(ctx, &Event{Type: "b", Room: "global"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSubscribeStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	q := NewEventQueue(16)
	deliveries, err := q.Subscribe(ctx)
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-deliveries:
		assert.False(t, ok, "channel should be closed after cancel")
	case <-time.After(time.Second):
		t.Fatal("delivery channel never closed")
	}
}
