package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/jeongseonghan/optic-link/internal/sim"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local tool, any origin
	},
}

// WSMessage is the envelope for every message pushed to clients.
type WSMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// StatusPayload reports a sweep job state change.
type StatusPayload struct {
	Job      string `json:"job"`
	Scenario string `json:"scenario"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
}

// PointPayload carries one finished sweep point.
type PointPayload struct {
	Job   string    `json:"job"`
	Point sim.Point `json:"point"`
}

// Hub fans sweep progress out to every connected WebSocket client.
type Hub struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool)}
}

// AddClient registers a connection.
func (h *Hub) AddClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	log.Debug("websocket client connected", "total", len(h.clients))
}

// RemoveClient drops a connection.
func (h *Hub) RemoveClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	conn.Close()
	log.Debug("websocket client disconnected", "remaining", len(h.clients))
}

// Broadcast sends a message to all connected clients.
func (h *Hub) Broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("websocket marshal", "err", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Warn("websocket write", "err", err)
			go h.RemoveClient(conn)
		}
	}
}

// BroadcastPoint pushes one finished sweep point.
func (h *Hub) BroadcastPoint(job string, p sim.Point) {
	h.Broadcast(WSMessage{Type: "point", Payload: PointPayload{Job: job, Point: p}})
}

// BroadcastStatus pushes a job state change.
func (h *Hub) BroadcastStatus(job, scenario, status, message string) {
	h.Broadcast(WSMessage{Type: "status", Payload: StatusPayload{
		Job: job, Scenario: scenario, Status: status, Message: message,
	}})
}
