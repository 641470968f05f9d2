package events

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"SynapseFund/pkg/logger"
)

// Event is one engine notification pushed to connected clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	At      time.Time   `json:"at"`
}

// Event types emitted by the engine.
const (
	EventCardAnalyzed            = "card_analyzed"
	EventCardDismissed           = "card_dismissed"
	EventRecommendationRefreshed = "recommendation_refreshed"
	EventSnapshotReady           = "snapshot_ready"
)

const (
	writeWait      = 10 * time.Second
	pingPeriod     = 30 * time.Second
	clientBuffer   = 16
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan Event
}

// Hub broadcasts engine events to WebSocket subscribers. Slow clients
// drop events rather than backpressuring the engine.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	log     *logger.Logger
	closed  bool
}

// NewHub creates an event hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		log:     log,
	}
}

// Serve upgrades an HTTP request and attaches the connection to the hub.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{conn: conn, send: make(chan Event, clientBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return conn.Close()
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writePump(c)
	go h.readPump(c)
	return nil
}

// Publish fans an event out to every subscriber. Full client buffers
// drop the event for that client only.
func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- ev:
		default:
			if h.log != nil {
				h.log.Debug("dropping event for slow client", logger.String("type", ev.Type))
			}
		}
	}
}

// Subscribers returns the number of attached clients.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close detaches all clients.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
	return nil
}

func (h *Hub) detach(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// readPump drains inbound frames; clients only listen, so anything read
// is discarded, but the pump notices disconnects.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.detach(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
