package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"

	"go-pos-inventory/pkg/logger"
)

// Event is the JSON frame pushed to every connected client.
type Event struct {
	Type    string `json:"type"`
	Action  string `json:"action"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Publisher is the send side of the hub used by services.
type Publisher interface {
	Publish(evt Event)
}

type Hub struct {
	Clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
	done       chan struct{}
	mutex      sync.Mutex
	log        *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		log:        log.WithComponent("ws"),
	}
}

// Add hands conn to the hub. It returns false once the hub has stopped.
func (h *Hub) Add(conn *websocket.Conn) bool {
	select {
	case h.register <- conn:
		return true
	case <-h.done:
		return false
	}
}

// Remove detaches conn. It returns immediately once the hub has stopped.
func (h *Hub) Remove(conn *websocket.Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Publish queues evt for broadcast. It never blocks; the event is dropped
// when the queue is full.
func (h *Hub) Publish(evt Event) {
	msg, err := json.Marshal(evt)
	if err != nil {
		h.log.Warnw("ws event not encodable", "type", evt.Type, "error", err)
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warnw("ws broadcast queue full, event dropped", "type", evt.Type, "action", evt.Action)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// Run serves register, unregister and broadcast until ctx is done, then
// closes all remaining connections.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.Clients {
				conn.Close()
				delete(h.Clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			h.log.Debugw("ws client connected", "clients", h.ClientCount())

		case conn := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
