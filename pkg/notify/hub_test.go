package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSubscribeReceivesPublished(t *testing.T) {
	hub := NewHub()

	events, cancel := hub.Subscribe()
	defer cancel()

	hub.Publish(Change{Entity: EntityFiles, FileID: 7})

	select {
	case change := <-events:
		require.Equal(t, EntityFiles, change.Entity)
		require.Equal(t, uint(7), change.FileID)
	case <-time.After(time.Second):
		t.Fatal("expected a change event")
	}
}

func TestPublishCoalescesForSlowSubscriber(t *testing.T) {
	hub := NewHub()

	events, cancel := hub.Subscribe()
	defer cancel()

	hub.Publish(Change{Entity: EntityFiles, FileID: 1})
	hub.Publish(Change{Entity: EntityFiles, FileID: 2})
	hub.Publish(Change{Entity: EntityTags, FileID: 3})

	change := <-events
	require.Equal(t, EntityTags, change.Entity, "an unconsumed event is replaced by the newest one")

	select {
	case extra := <-events:
		t.Fatalf("expected no queued events, got %+v", extra)
	default:
	}
}

func TestCancelClosesChannel(t *testing.T) {
	hub := NewHub()

	events, cancel := hub.Subscribe()
	cancel()
	cancel() // idempotent

	_, ok := <-events
	require.False(t, ok, "cancelled subscription channel must be closed")

	// Publishing after cancel must not panic
	hub.Publish(Change{Entity: EntityFiles})
}

func TestIndependentSubscribers(t *testing.T) {
	hub := NewHub()

	first, cancelFirst := hub.Subscribe()
	second, cancelSecond := hub.Subscribe()
	defer cancelSecond()

	cancelFirst()
	hub.Publish(Change{Entity: EntityTags})

	select {
	case change := <-second:
		require.Equal(t, EntityTags, change.Entity)
	case <-time.After(time.Second):
		t.Fatal("remaining subscriber must still receive events")
	}

	_, ok := <-first
	require.False(t, ok)
}
