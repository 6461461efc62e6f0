package ws

import (
	"encoding/json"
	"testing"
)

func TestHub_PublishDeliversToRegisteredClient(t *testing.T) {
	hub := NewHub()
	client := NewClient("user-1", nil)
	hub.register(client)

	delivered := hub.Publish("user-1", Frame{
		Type: "BID_PLACED",
		Seq:  7,
		Data: map[string]any{"ride_id": "ride-1"},
	})
	if delivered != 1 {
		t.Fatalf("expected 1 delivery, got %d", delivered)
	}

	payload := <-client.send
	var frame Frame
	if err := json.Unmarshal(payload, &frame); err != nil {
		t.Fatalf("queued payload is not valid JSON: %v", err)
	}
	if frame.Type != "BID_PLACED" || frame.Seq != 7 {
		t.Errorf("unexpected frame: %+v", frame)
	}
}

func TestHub_PublishToUnknownUser(t *testing.T) {
	hub := NewHub()

	delivered := hub.Publish("ghost", Frame{Type: "BID_PLACED"})
	if delivered != 0 {
		t.Errorf("expected 0 deliveries, got %d", delivered)
	}
}

func TestHub_PublishRespectsSubscriptionFilter(t *testing.T) {
	hub := NewHub()
	client := NewClient("user-1", nil)
	hub.register(client)

	client.setSubscription([]string{"RIDE_CANCELLED"})

	if delivered := hub.Publish("user-1", Frame{Type: "BID_PLACED"}); delivered != 0 {
		t.Errorf("expected filtered frame dropped, delivered=%d", delivered)
	}
	if delivered := hub.Publish("user-1", Frame{Type: "RIDE_CANCELLED"}); delivered != 1 {
		t.Errorf("expected subscribed frame delivered, delivered=%d", delivered)
	}

	// Empty list resets to all types.
	client.setSubscription(nil)
	if delivered := hub.Publish("user-1", Frame{Type: "BID_PLACED"}); delivered != 1 {
		t.Errorf("expected reset filter to deliver everything, delivered=%d", delivered)
	}
}

func TestHub_FansOutToAllConnections(t *testing.T) {
	hub := NewHub()
	first := NewClient("user-1", nil)
	second := NewClient("user-1", nil)
	other := NewClient("user-2", nil)
	hub.register(first)
	hub.register(second)
	hub.register(other)

	delivered := hub.Publish("user-1", Frame{Type: "BID_PLACED"})
	if delivered != 2 {
		t.Errorf("expected fan-out to both connections, delivered=%d", delivered)
	}
	if len(other.send) != 0 {
		t.Error("other user's connection should not receive the frame")
	}
}

func TestHub_EvictsSlowClient(t *testing.T) {
	hub := NewHub()
	client := NewClient("user-1", nil)
	hub.register(client)

	// Fill the send queue without draining it.
	for i := 0; i < sendQueueSize; i++ {
		if delivered := hub.Publish("user-1", Frame{Type: "BID_PLACED"}); delivered != 1 {
			t.Fatalf("expected delivery %d to queue", i)
		}
	}

	// The next publish finds the queue full and drops the connection.
	if delivered := hub.Publish("user-1", Frame{Type: "BID_PLACED"}); delivered != 0 {
		t.Errorf("expected slow client eviction, delivered=%d", delivered)
	}
	if hub.ConnectionCount("user-1") != 0 {
		t.Error("expected slow client unregistered")
	}

	// The queue was closed during eviction.
	for range client.send {
	}
}

func TestHub_UnregisterIsIdempotent(t *testing.T) {
	hub := NewHub()
	client := NewClient("user-1", nil)
	hub.register(client)

	hub.unregister(client)
	hub.unregister(client) // Second call must not double-close the queue.

	if hub.ConnectionCount("user-1") != 0 {
		t.Error("expected no connections left")
	}
}
