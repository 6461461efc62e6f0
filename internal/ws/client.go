package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendQueueSize  = 32
)

// Client is one websocket connection belonging to an authenticated user.
type Client struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte

	mu    sync.RWMutex
	types map[string]struct{} // nil means all types
}

// subscribeMessage is the only client-to-server frame. It narrows which
// notification types this connection receives.
type subscribeMessage struct {
	Type  string   `json:"type"`
	Types []string `json:"types"`
}

// NewClient wraps an upgraded connection for the given user.
func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendQueueSize),
	}
}

// wants reports whether this connection subscribed to the given frame type.
func (c *Client) wants(frameType string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.types == nil {
		return true
	}
	_, ok := c.types[frameType]
	return ok
}

// setSubscription replaces the connection's type filter. An empty list
// resets to all types.
func (c *Client) setSubscription(types []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(types) == 0 {
		c.types = nil
		return
	}
	c.types = make(map[string]struct{}, len(types))
	for _, t := range types {
		c.types[t] = struct{}{}
	}
}

// Serve registers the client on the hub and runs the read and write pumps
// until the connection dies. It blocks until the read pump exits.
func (c *Client) Serve(hub *Hub) {
	hub.register(c)
	go c.writePump()
	c.readPump(hub)
}

// readPump consumes client frames (subscriptions and pongs) and tears the
// connection down when the peer goes away.
func (c *Client) readPump(hub *Hub) {
	defer func() {
		hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws: read error user=%s: %v", c.userID, err)
			}
			return
		}

		var msg subscribeMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue // Ignore malformed frames.
		}
		if msg.Type == "subscribe" {
			c.setSubscription(msg.Types)
		}
	}
}

// writePump drains the send queue and pings the peer on an interval.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the queue.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
