package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Frame is the wire format for a realtime notification.
type Frame struct {
	Type string         `json:"type"`
	Seq  int64          `json:"seq,omitempty"`
	Data map[string]any `json:"data,omitempty"`
}

// Hub tracks live websocket connections per user and fans frames out to
// them. Delivery is best-effort: a slow client is disconnected rather than
// allowed to block the publisher; the durable notification list in Postgres
// lets it catch up via the polling endpoint after reconnecting.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

// register adds a client to its user's connection set.
func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.userID] = set
	}
	set[c] = struct{}{}
}

// unregister removes a client and closes its send queue.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unregisterLocked(c)
}

func (h *Hub) unregisterLocked(c *Client) {
	set, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.userID)
	}
	close(c.send)
}

// Publish sends a frame to every connection of the given user whose
// subscription matches the frame type. Returns the number of connections
// the frame was queued to.
//
// The send happens under the hub lock so a concurrent unregister cannot
// close a queue mid-send.
func (h *Hub) Publish(userID string, frame Frame) int {
	payload, err := json.Marshal(frame)
	if err != nil {
		log.Printf("ws: marshal frame: %v", err)
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	var evict []*Client
	for c := range h.clients[userID] {
		if !c.wants(frame.Type) {
			continue
		}
		select {
		case c.send <- payload:
			delivered++
		default:
			// Full queue means the peer stopped reading.
			evict = append(evict, c)
		}
	}

	for _, c := range evict {
		log.Printf("ws: dropping slow client user=%s", c.userID)
		h.unregisterLocked(c)
	}

	return delivered
}

// ConnectionCount reports the number of live connections for a user.
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
