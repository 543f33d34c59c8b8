package websocket

import (
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
)

// mockClient creates a Client with a send channel but no real connection.
func mockClient(hub *Hub, userID int64) *Client {
	return &Client{
		hub:       hub,
		conn:      nil,
		userID:    userID,
		sessionID: uuid.NewString(),
		send:      make(chan []byte, sendBufferSize),
	}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub, 1)
	c2 := mockClient(hub, 2)

	hub.Register(c1)
	hub.Register(c2)

	if got := hub.SessionCount(); got != 2 {
		t.Fatalf("expected 2 sessions, got %d", got)
	}
	if !hub.IsOnline(1) || !hub.IsOnline(2) {
		t.Fatal("expected both users online")
	}

	hub.Unregister(c1)

	if hub.IsOnline(1) {
		t.Fatal("expected user 1 offline after unregister")
	}
	if !hub.IsOnline(2) {
		t.Fatal("expected user 2 still online")
	}
}

func TestDoubleUnregister(t *testing.T) {
	hub := NewHub(slog.Default())
	c := mockClient(hub, 1)
	hub.Register(c)
	hub.Unregister(c)
	// Should not panic
	hub.Unregister(c)

	if got := hub.SessionCount(); got != 0 {
		t.Fatalf("expected 0 sessions, got %d", got)
	}
}

func TestUserOnlineWhileAnySessionRemains(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub, 7)
	c2 := mockClient(hub, 7)
	hub.Register(c1)
	hub.Register(c2)

	hub.Unregister(c1)
	if !hub.IsOnline(7) {
		t.Fatal("expected user online while second session remains")
	}

	hub.Unregister(c2)
	if hub.IsOnline(7) {
		t.Fatal("expected user offline after last session closed")
	}
}

func TestPublishOffline(t *testing.T) {
	hub := NewHub(slog.Default())

	if hub.Publish(42, []byte(`{"msg":"hi"}`)) {
		t.Fatal("Publish returned true for offline user")
	}
}

func TestPublishDeliversFrame(t *testing.T) {
	hub := NewHub(slog.Default())

	c := mockClient(hub, 5)
	hub.Register(c)

	payload := []byte(`{"eventId":9,"msg":"New event: deploy finished"}`)
	if !hub.Publish(5, payload) {
		t.Fatal("Publish returned false for online user")
	}

	select {
	case data := <-c.send:
		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			t.Fatalf("unmarshal frame: %v", err)
		}
		if frame.Topic != "notify/5" {
			t.Errorf("topic = %q, want notify/5", frame.Topic)
		}
		if string(frame.Data) != string(payload) {
			t.Errorf("data = %s, want %s", frame.Data, payload)
		}
	default:
		t.Fatal("no frame delivered to session")
	}
}

func TestPublishTopicUsesPendingTopic(t *testing.T) {
	hub := NewHub(slog.Default())

	c := mockClient(hub, 3)
	hub.Register(c)

	if !hub.PublishTopic(3, []byte(`[]`)) {
		t.Fatal("PublishTopic returned false for online user")
	}

	data := <-c.send
	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("unmarshal frame: %v", err)
	}
	if frame.Topic != "pending/3" {
		t.Errorf("topic = %q, want pending/3", frame.Topic)
	}
}

func TestPublishFullBufferIsFailure(t *testing.T) {
	hub := NewHub(slog.Default())

	c := mockClient(hub, 8)
	hub.Register(c)

	// Fill the session buffer.
	for i := 0; i < sendBufferSize; i++ {
		if !hub.Publish(8, []byte(`{}`)) {
			t.Fatalf("publish %d failed with space remaining", i)
		}
	}

	if hub.Publish(8, []byte(`{}`)) {
		t.Fatal("Publish returned true with full session buffer")
	}
}
