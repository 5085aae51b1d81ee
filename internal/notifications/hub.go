package notifications

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"typoteka/internal/middleware"

	"github.com/gofiber/websocket/v2"
)

const maxTotalConns = 10000

// ErrHubFull is returned by Register when the connection limit is reached.
var ErrHubFull = errors.New("server connection limit reached")

// ErrHubClosed is returned by Register after Shutdown.
var ErrHubClosed = errors.New("hub is shut down")

// Hub tracks anonymous websocket clients and fans events out to all of them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	closed  bool
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// Name returns a human-readable identifier for this hub.
func (h *Hub) Name() string { return "events hub" }

// Register adds a connection. conn may be nil in tests.
func (h *Hub) Register(conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHubClosed
	}
	if len(h.clients) >= maxTotalConns {
		return nil, ErrHubFull
	}

	client := newClient(h, conn)
	h.clients[client] = struct{}{}
	middleware.ActiveWebSockets.Inc()
	return client, nil
}

// UnregisterClient removes the client and closes its send queue. Safe to call twice.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)
	middleware.ActiveWebSockets.Dec()
}

// Count returns the number of registered clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastAll queues message for every client and returns how many accepted it.
func (h *Hub) BroadcastAll(message string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data := []byte(message)
	delivered := 0
	for c := range h.clients {
		if c.TrySend(data) {
			delivered++
		}
	}
	return delivered
}

// StartWiring relays events published by any instance to this hub's clients.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartSubscriber(ctx, func(payload string) {
		h.BroadcastAll(payload)
	})
}

// Shutdown closes every send queue. Each WritePump then sends a close frame
// and closes its connection, so frames are never written concurrently.
func (h *Hub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	for client := range h.clients {
		close(client.Send)
		middleware.ActiveWebSockets.Dec()
	}
	middleware.Logger.Info("websocket hub shut down", slog.Int("clients", len(h.clients)))
	h.clients = make(map[*Client]struct{})
	return nil
}
