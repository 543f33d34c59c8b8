// Package websocket tracks connected user sessions and provides the
// presence-gated publish capability used by the notification engine.
package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Frame is the envelope written to clients. Topic distinguishes live
// notifications ("notify/<userID>") from pending batches ("pending/<userID>").
type Frame struct {
	Topic string          `json:"topic"`
	Data  json.RawMessage `json:"data"`
}

// Hub is the online-user registry. A user is online while at least one of
// their sessions is registered; sessions are registered on connect and
// unregistered on disconnect.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Client           // session id -> client
	users    map[int64]map[string]*Client // user id -> session id -> client
	logger   *slog.Logger
}

// NewHub creates an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		sessions: make(map[string]*Client),
		users:    make(map[int64]map[string]*Client),
		logger:   logger,
	}
}

// Register adds a client session to the registry.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.sessions[c.sessionID] = c
	if h.users[c.userID] == nil {
		h.users[c.userID] = make(map[string]*Client)
	}
	h.users[c.userID][c.sessionID] = c
	online := len(h.users[c.userID])
	h.mu.Unlock()

	h.logger.Info("session registered", "session", c.sessionID, "user", c.userID, "sessions", online)
}

// Unregister removes a client session and closes its send channel.
// Unknown sessions are ignored.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.sessions[c.sessionID]; !ok {
		h.mu.Unlock()
		h.logger.Warn("unregister of unknown session", "session", c.sessionID)
		return
	}
	delete(h.sessions, c.sessionID)
	delete(h.users[c.userID], c.sessionID)
	if len(h.users[c.userID]) == 0 {
		delete(h.users, c.userID)
	}
	close(c.send)
	h.mu.Unlock()

	h.logger.Info("session unregistered", "session", c.sessionID, "user", c.userID)
}

// IsOnline reports whether the user has at least one registered session.
func (h *Hub) IsOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID]) > 0
}

// SessionCount returns the number of registered sessions across all users.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Publish sends a live notification to the user's sessions. It returns false
// when the user is offline or no session accepted the message, true once the
// payload has been handed to at least one session's write pump.
func (h *Hub) Publish(userID int64, payload []byte) bool {
	return h.send("notify", userID, payload)
}

// PublishTopic sends a pending-notification batch to the user's per-user
// pending topic under the same presence gate as Publish.
func (h *Hub) PublishTopic(userID int64, payload []byte) bool {
	return h.send("pending", userID, payload)
}

func (h *Hub) send(topic string, userID int64, payload []byte) bool {
	frame, err := json.Marshal(Frame{
		Topic: fmt.Sprintf("%s/%d", topic, userID),
		Data:  payload,
	})
	if err != nil {
		h.logger.Error("marshal frame", "error", err)
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := h.users[userID]
	if len(clients) == 0 {
		h.logger.Warn("user offline, message not sent", "user", userID, "topic", topic)
		return false
	}

	delivered := false
	for _, c := range clients {
		select {
		case c.send <- frame:
			delivered = true
		default:
			// Session buffer full — skip this session
		}
	}
	return delivered
}
