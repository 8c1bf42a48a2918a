package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ponder-agent/ponder/internal/types"
)

func TestPublishSubscribe(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	ch, cleanup := bus.Subscribe(context.Background(), Filter{}, 10)
	defer cleanup()

	sessionID := types.NewID()
	err := bus.Publish(context.Background(), Event{
		Type:      EventProcessStarted,
		Timestamp: time.Now(),
		SessionID: sessionID,
		Payload:   ProcessStartedPayload{SessionID: sessionID, Input: "create a file"},
	})
	require.NoError(t, err)

	select {
	case event := <-ch:
		assert.Equal(t, EventProcessStarted, event.Type)
		assert.Equal(t, sessionID, event.SessionID)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestFilterByType(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	ch, cleanup := bus.Subscribe(context.Background(), Filter{
		Types: []EventType{EventProcessCompleted},
	}, 10)
	defer cleanup()

	require.NoError(t, bus.Publish(context.Background(), Event{Type: EventProcessStarted}))
	require.NoError(t, bus.Publish(context.Background(), Event{Type: EventProcessCompleted}))

	select {
	case event := <-ch:
		assert.Equal(t, EventProcessCompleted, event.Type)
	case <-time.After(time.Second):
		t.Fatal("filtered event not delivered")
	}

	select {
	case event := <-ch:
		t.Fatalf("unexpected second event: %s", event.Type)
	default:
	}
}

func TestFilterBySession(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	wanted := types.NewID()
	ch, cleanup := bus.Subscribe(context.Background(), Filter{SessionID: wanted}, 10)
	defer cleanup()

	require.NoError(t, bus.Publish(context.Background(), Event{
		Type:      EventProcessStarted,
		SessionID: types.NewID(),
	}))
	require.NoError(t, bus.Publish(context.Background(), Event{
		Type:      EventProcessStarted,
		SessionID: wanted,
	}))

	select {
	case event := <-ch:
		assert.Equal(t, wanted, event.SessionID)
	case <-time.After(time.Second):
		t.Fatal("session-filtered event not delivered")
	}
}

func TestSlowSubscriberDropsNotBlocks(t *testing.T) {
	dropped := 0
	bus := NewEventBus(WithErrorHandler(func(err error, _ map[string]any) {
		dropped++
	}))
	defer bus.Close()

	// Buffer of one; nobody reads.
	_, cleanup := bus.Subscribe(context.Background(), Filter{}, 1)
	defer cleanup()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			_ = bus.Publish(context.Background(), Event{Type: EventPhaseChanged})
		}
		close(done)
	}()

	select {
	case <-done:
		assert.Equal(t, 4, dropped)
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on slow subscriber")
	}
}

func TestPublishAfterClose(t *testing.T) {
	bus := NewEventBus()
	require.NoError(t, bus.Close())

	err := bus.Publish(context.Background(), Event{Type: EventProcessStarted})
	assert.Error(t, err)

	// Closing twice is fine
	assert.NoError(t, bus.Close())
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	ch, cleanup := bus.Subscribe(context.Background(), Filter{}, 1)
	cleanup()

	_, open := <-ch
	assert.False(t, open)
}
