// Package realtime fans chat messages out to live websocket subscribers.
package realtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/google/uuid"
)

const outboundBuffer = 32

// Bus publishes a stored chat message to every instance of the service.
type Bus interface {
	Publish(ctx context.Context, msg models.ChatMessage) error
}

// Client is one live subscriber. Outbound is closed when the client is removed.
type Client struct {
	UserID   uuid.UUID
	Outbound chan models.ChatMessage
}

type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) Subscribe(userID uuid.UUID) *Client {
	c := &Client{UserID: userID, Outbound: make(chan models.ChatMessage, outboundBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.Outbound)
}

// Broadcast delivers msg to the sender's and receiver's subscribers. Slow
// subscribers lose the message rather than block the sender.
func (h *Hub) Broadcast(msg models.ChatMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.UserID != msg.SenderID && c.UserID != msg.ReceiverID {
			continue
		}
		select {
		case c.Outbound <- msg:
		default:
			slog.Warn("dropping chat message for slow subscriber", "component", "realtime", "user_id", c.UserID.String())
		}
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish delivers directly to this process's subscribers. It is the Bus used
// when Redis is not configured.
func (h *Hub) Publish(_ context.Context, msg models.ChatMessage) error {
	h.Broadcast(msg)
	return nil
}
