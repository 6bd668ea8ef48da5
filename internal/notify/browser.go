package notify

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 5 * time.Second

// Event is the frame pushed to browser clients.
type Event struct {
	Type string `json:"type"`
	Notification
}

// Hub tracks front-end clients connected over WebSocket.
type Hub struct {
	mu       sync.Mutex
	clients  map[*wsClient]struct{}
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

type wsClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*wsClient]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The front-end is served from a local origin we do not know
			// in advance (dev server, file://, native shell).
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// ServeHTTP upgrades the request and keeps the client registered until
// it disconnects. Incoming frames are read and discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &wsClient{conn: conn}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("browser client connected", zap.Int("clients", n))

	defer func() {
		h.remove(c)
		h.logger.Info("browser client disconnected")
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast writes v as JSON to every client and returns how many
// received it. Clients that fail a write are dropped.
func (h *Hub) Broadcast(v any) int {
	h.mu.Lock()
	clients := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	delivered := 0
	for _, c := range clients {
		c.writeMu.Lock()
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := c.conn.WriteJSON(v)
		c.writeMu.Unlock()
		if err != nil {
			h.logger.Debug("dropping browser client", zap.Error(err))
			h.remove(c)
			continue
		}
		delivered++
	}
	return delivered
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*wsClient]struct{})
	h.mu.Unlock()
	for c := range clients {
		c.conn.Close()
	}
}

func (h *Hub) remove(c *wsClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		c.conn.Close()
	}
}

// BrowserNotifier shows notifications in connected front-end clients.
// Permission is granted while at least one client is connected.
type BrowserNotifier struct {
	hub *Hub
}

func NewBrowserNotifier(hub *Hub) *BrowserNotifier {
	return &BrowserNotifier{hub: hub}
}

func (b *BrowserNotifier) Name() string { return "browser" }

func (b *BrowserNotifier) RequestPermission(context.Context) bool {
	return b.hub.Clients() > 0
}

func (b *BrowserNotifier) Notify(_ context.Context, n Notification) error {
	if b.hub.Broadcast(Event{Type: "notification", Notification: n}) == 0 {
		return ErrUndelivered
	}
	return nil
}
