// Package events broadcasts engine lifecycle events to websocket
// subscribers, so clients learn when a fresh recommendation set is ready
// without polling.
package events

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Event types
const (
	TypeRecommendationsReady = "recommendations.ready"
)

// Event is one message pushed to subscribers
type Event struct {
	Type        string    `json:"type"`
	UserID      uuid.UUID `json:"user_id"`
	Count       int       `json:"count"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Hub fans events out to connected websocket clients
type Hub struct {
	mu       sync.Mutex
	conns    map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
}

// NewHub creates a new event hub
func NewHub() *Hub {
	return &Hub{
		conns: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// HandleWS upgrades the request and registers the connection
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()

	// Drain client frames; the stream is one-way
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast pushes an event to every connected subscriber, dropping
// connections that fail to accept the write
func (h *Hub) Broadcast(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		if err := conn.WriteJSON(event); err != nil {
			delete(h.conns, conn)
			conn.Close()
		}
	}
}

// RecommendationsReady announces a completed regeneration run
func (h *Hub) RecommendationsReady(userID uuid.UUID, count int) {
	h.Broadcast(Event{
		Type:        TypeRecommendationsReady,
		UserID:      userID,
		Count:       count,
		GeneratedAt: time.Now(),
	})
}

// Subscribers returns the number of connected clients
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
}
