package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"medride/internal/middleware"
	"medride/internal/ws"
)

// WSHandler upgrades authenticated connections onto the notification hub.
type WSHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler. allowedOrigins lists the browser
// origins permitted to open a socket; empty means same-host only.
func NewWSHandler(hub *ws.Hub, allowedOrigins []string) *WSHandler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				if len(origins) == 0 {
					return origin == "http://"+r.Host || origin == "https://"+r.Host
				}
				_, ok := origins[origin]
				return ok
			},
		},
	}
}

// Connect handles GET /v1/ws
//
// The session middleware has already authenticated the cookie; the
// connection then receives the user's notification frames until it drops.
func (h *WSHandler) Connect(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		log.Printf("ws: upgrade failed user=%s: %v", userID, err)
		return
	}

	client := ws.NewClient(userID, conn)
	client.Serve(h.hub)
}
