package realtime

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// TextMessage matches the websocket text frame opcode.
const TextMessage = 1

// Client is a connected feed reader; *websocket.Conn satisfies it.
type Client interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub relays bus events to every connected websocket client.
type Hub struct {
	mu      sync.Mutex
	clients map[Client]struct{}
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{clients: make(map[Client]struct{}), log: log}
}

func (h *Hub) Register(c Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c Client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast writes e to all clients and drops the ones that fail.
func (h *Hub) Broadcast(e Event) {
	payload, err := e.Encode()
	if err != nil {
		h.log.Error("encode event", zap.Error(err))
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if err := c.WriteMessage(TextMessage, payload); err != nil {
			c.Close()
			delete(h.clients, c)
		}
	}
}

// Run subscribes to bus and broadcasts until ctx ends or the subscription closes.
func (h *Hub) Run(ctx context.Context, bus Bus) error {
	events, err := bus.Subscribe(ctx)
	if err != nil {
		return err
	}
	for e := range events {
		h.Broadcast(e)
	}
	return nil
}
