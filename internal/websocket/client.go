package websocket

import (
	"context"
	"strings"
	"time"

	ws "github.com/coder/websocket"
	"github.com/google/uuid"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
)

// Client represents a single WebSocket session for a user.
type Client struct {
	hub       *Hub
	conn      *ws.Conn
	userID    int64
	sessionID string
	send      chan []byte
	onPing    func(userID int64)
}

// NewClient creates a session tied to the given hub and connection. onPing is
// invoked when the client sends a "ping" frame asking for its pending
// notifications; it may be nil.
func NewClient(hub *Hub, conn *ws.Conn, userID int64, onPing func(userID int64)) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		userID:    userID,
		sessionID: uuid.NewString(),
		send:      make(chan []byte, sendBufferSize),
		onPing:    onPing,
	}
}

// Run registers the session, starts the write pump, and runs the read pump.
// It blocks until the connection is closed, then unregisters.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.writePump(ctx)
	c.readPump(ctx)
}

// readPump reads incoming frames. A "ping" text frame triggers a pending
// flush for this session's user; everything else is discarded. It returns on
// error (connection close), which triggers cleanup.
func (c *Client) readPump(ctx context.Context) {
	for {
		typ, data, err := c.conn.Read(ctx)
		if err != nil {
			return
		}
		if typ == ws.MessageText && strings.TrimSpace(string(data)) == "ping" && c.onPing != nil {
			c.onPing(c.userID)
		}
	}
}

// writePump drains the send channel and writes frames to the WebSocket.
// It also sends periodic pings to detect stale connections.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				// Hub closed the channel — connection is done
				return
			}
			if err := c.conn.Write(ctx, ws.MessageText, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
