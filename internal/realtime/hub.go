package realtime

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Envelope is the wire format for outbound events. Status updates carry no
// payload; observers re-query current state over HTTP.
type Envelope struct {
	Event string `json:"event"`
}

// Hub tracks connected websocket clients and fans events out to them.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*client
	logger  *zap.Logger
}

type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*client),
		logger:  logger,
	}
}

// Emit broadcasts an event to every connected client, fire-and-forget.
// Write failures are logged and otherwise ignored; the read loop of a dead
// connection will unregister it.
func (h *Hub) Emit(event string) {
	h.mu.Lock()
	targets := make([]*client, 0, len(h.clients))
	for _, cl := range h.clients {
		targets = append(targets, cl)
	}
	h.mu.Unlock()

	for _, cl := range targets {
		cl.mu.Lock()
		err := cl.conn.WriteJSON(Envelope{Event: event})
		cl.mu.Unlock()
		if err != nil {
			h.logger.Debug("broadcast write failed", zap.Error(err))
		}
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) register(id string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[id] = &client{conn: conn}
}

func (h *Hub) unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, id)
}
