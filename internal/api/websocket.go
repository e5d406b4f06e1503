package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/conduitiot/conduit-core/internal/command"
	"github.com/conduitiot/conduit-core/internal/infrastructure/config"
	"github.com/conduitiot/conduit-core/internal/infrastructure/logging"
)

// clientSendBuffer is the per-client outbound queue size. Clients that
// fall this far behind are disconnected.
const clientSendBuffer = 64

// defaultWriteWait bounds a single WebSocket write.
const defaultWriteWait = 10 * time.Second

// Event is the envelope for messages pushed over the event feed.
type Event struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data"`
}

// EventCommandDispatched announces a command accepted for delivery.
const EventCommandDispatched = "command_dispatched"

// Hub fans dispatched-command events out to connected WebSocket clients.
// It implements command.Emitter so it can sit alongside the MQTT emitter
// in a MultiEmitter.
type Hub struct {
	cfg    config.WebSocketConfig
	logger *logging.Logger

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
	closed  bool
}

// NewHub creates an empty hub.
func NewHub(cfg config.WebSocketConfig, logger *logging.Logger) *Hub {
	return &Hub{
		cfg:     cfg,
		logger:  logger,
		clients: make(map[*wsClient]struct{}),
	}
}

// Emit implements command.Emitter by broadcasting the message to all
// connected clients. It never fails: the feed is an observation surface,
// not a delivery guarantee.
func (h *Hub) Emit(msg *command.Message) error {
	h.Broadcast(EventCommandDispatched, msg)
	return nil
}

// Broadcast sends an event to every connected client. Slow clients are
// dropped rather than blocking the broadcast.
func (h *Hub) Broadcast(eventType string, data any) {
	payload, err := json.Marshal(Event{
		Type:      eventType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	})
	if err != nil {
		h.logger.Error("marshaling event", "type", eventType, "error", err)
		return
	}

	h.mu.RLock()
	clients := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- payload:
		default:
			h.logger.Warn("dropping slow websocket client", "remote", c.remote)
			h.unregister(c)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll disconnects every client and rejects new registrations.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[*wsClient]struct{})
	h.mu.Unlock()

	for _, c := range clients {
		c.closeOnce()
	}
}

func (h *Hub) register(c *wsClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *wsClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
	}
	h.mu.Unlock()

	if ok {
		c.closeOnce()
	}
}

// wsClient is one connected event feed subscriber.
type wsClient struct {
	conn   *websocket.Conn
	send   chan []byte
	remote string
	once   sync.Once
}

// closeOnce tears down the connection. The send channel is never closed:
// a concurrent Broadcast may still hold a reference, and sending on a
// closed channel panics. The pumps exit on the connection error instead.
func (c *wsClient) closeOnce() {
	c.once.Do(func() {
		c.conn.Close()
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The feed is a read-only observation surface; cross-origin
	// subscribers are allowed.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleEvents upgrades the connection and attaches it to the hub.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	client := &wsClient{
		conn:   conn,
		send:   make(chan []byte, clientSendBuffer),
		remote: r.RemoteAddr,
	}

	if !s.hub.register(client) {
		conn.Close()
		return
	}

	s.logger.Info("websocket client connected", "remote", r.RemoteAddr)

	go s.writePump(client)
	go s.readPump(client)
}

// writePump drains the client's send channel and keeps the connection
// alive with pings.
func (s *Server) writePump(c *wsClient) {
	interval := time.Duration(s.wsCfg.PingInterval) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(defaultWriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				s.hub.unregister(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(defaultWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.hub.unregister(c)
				return
			}
		}
	}
}

// readPump discards inbound frames. The feed is one-way; reading is
// still required to process control frames and detect disconnects.
func (s *Server) readPump(c *wsClient) {
	defer s.hub.unregister(c)

	maxSize := int64(s.wsCfg.MaxMessageSize)
	if maxSize <= 0 {
		maxSize = 8192
	}
	c.conn.SetReadLimit(maxSize)

	pongWait := time.Duration(s.wsCfg.PingInterval+s.wsCfg.PongTimeout) * time.Second
	if pongWait <= 0 {
		pongWait = 60 * time.Second
	}
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			s.logger.Info("websocket client disconnected", "remote", c.remote)
			return
		}
	}
}
