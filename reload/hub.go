// Package reload broadcasts change notifications to websocket clients.
//
// A Hub attaches to any change-token producer and pushes a reload message to
// every connected client each time the token fires, the way a development
// server tells browsers to refresh:
//
//	hub := reload.NewHub()
//	sub := hub.Attach(watcher.Token)
//	defer sub.Close()
//
//	http.ListenAndServe(":8080", hub.Handler())
package reload

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	changetoken "github.com/commonsensesoftware/go-changetoken"
)

// MessageType represents the type of reload message.
type MessageType string

const (
	// TypeReload asks clients to reload their state.
	TypeReload MessageType = "reload"
	// TypeError carries a producer-side error to clients.
	TypeError MessageType = "error"
)

// Message is sent to clients via websocket.
type Message struct {
	Type  MessageType `json:"type"`
	Error string      `json:"error,omitempty"`
	Path  string      `json:"path,omitempty"`
}

// Hub manages websocket connections and fans change notifications out to
// them.
type Hub struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHub creates a new reload hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		logger:  slog.Default(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Attach subscribes the hub to a change-token producer. Every fire
// broadcasts a reload message; the subscription re-acquires the next token
// generation automatically. Close the returned subscription to detach.
func (h *Hub) Attach(producer func() changetoken.Token) *changetoken.Subscription {
	return changetoken.OnChangeFunc(producer, h.NotifyReload)
}

// Handler returns the HTTP surface for the hub: the websocket endpoint at
// /reload and Prometheus metrics at /metrics.
func (h *Hub) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/reload", h.HandleWebSocket)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// HandleWebSocket handles websocket upgrade and connection.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	// Hold the connection open until the client goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// NotifyReload sends a reload message to all clients.
func (h *Hub) NotifyReload() {
	h.broadcast(Message{Type: TypeReload})
}

// NotifyError sends an error message to all clients.
func (h *Hub) NotifyError(errMsg string) {
	h.broadcast(Message{Type: TypeError, Error: errMsg})
}

// broadcast sends a message to all connected clients, evicting any that
// fail to accept the write.
func (h *Hub) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			h.mu.Lock()
			delete(h.clients, client)
			h.mu.Unlock()
			client.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all client connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}
