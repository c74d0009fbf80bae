package websocket

import (
	"context"
	"log/slog"

	"veritaslab/internal/microservices/http-api/models"
)

// Central hub managing all live connections.
// Each WebSocket connection runs its own pumps, but every change to the
// rooms goes through the hub goroutine over channels.

const deliverBuffer = 256

type delivery struct {
	userID  string
	payload []byte
}

type onlineQuery struct {
	userID string
	reply  chan int
}

type Hub struct {
	register   chan *Client
	unregister chan *Client
	deliver    chan delivery
	online     chan onlineQuery
	done       chan struct{}

	rooms  map[string]*Room // user ID -> open connections
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan delivery, deliverBuffer),
		online:     make(chan onlineQuery),
		done:       make(chan struct{}),
		rooms:      make(map[string]*Room),
		logger:     logger.With("component", "ws_hub"),
	}
}

// Run serves the hub until ctx is cancelled, then closes every connection.
func (h *Hub) Run(ctx context.Context) error {
	h.logger.Info("notification hub started")
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return nil
		case c := <-h.register:
			h.add(c)
		case c := <-h.unregister:
			h.drop(c)
		case d := <-h.deliver:
			h.send(d)
		case q := <-h.online:
			n := 0
			if room, ok := h.rooms[q.userID]; ok {
				n = room.Len()
			}
			q.reply <- n
		}
	}
}

// Publish pushes a recorded notification to its recipient's open connections.
// It never blocks: when the hub is stopped or backed up the push is dropped,
// the notification itself is already stored.
func (h *Hub) Publish(n *models.Notification) {
	if n == nil {
		return
	}
	payload, err := NewNotificationMessage(n).ToJSON()
	if err != nil {
		h.logger.Error("failed to encode notification", "id", n.ID, "error", err)
		return
	}

	select {
	case <-h.done:
	case h.deliver <- delivery{userID: n.UserID, payload: payload}:
	default:
		h.logger.Warn("hub backed up, dropping live notification", "id", n.ID, "user_id", n.UserID)
	}
}

// connectionCount returns the number of open connections of userID.
func (h *Hub) connectionCount(userID string) int {
	q := onlineQuery{userID: userID, reply: make(chan int, 1)}
	select {
	case h.online <- q:
		return <-q.reply
	case <-h.done:
		return 0
	}
}

// attach hands c to the hub; false once the hub has stopped.
func (h *Hub) attach(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) detach(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) add(c *Client) {
	room, ok := h.rooms[c.UserID]
	if !ok {
		room = NewRoom(c.UserID)
		h.rooms[c.UserID] = room
	}
	room.Add(c)
	h.logger.Debug("client connected", "user_id", c.UserID, "connections", room.Len())

	if payload, err := NewSystemMessage("connected").ToJSON(); err == nil {
		h.trySend(c, payload)
	}
}

func (h *Hub) send(d delivery) {
	room, ok := h.rooms[d.userID]
	if !ok {
		return
	}
	for c := range room.Clients {
		h.trySend(c, d.payload)
	}
}

// trySend drops a client whose buffer is full instead of stalling the hub.
func (h *Hub) trySend(c *Client, payload []byte) {
	select {
	case c.send <- payload:
	default:
		h.logger.Warn("slow client dropped", "user_id", c.UserID)
		h.drop(c)
	}
}

func (h *Hub) drop(c *Client) {
	room, ok := h.rooms[c.UserID]
	if !ok || !room.Remove(c) {
		return
	}
	close(c.send)
	if room.Len() == 0 {
		delete(h.rooms, c.UserID)
	}
	h.logger.Debug("client disconnected", "user_id", c.UserID)
}

func (h *Hub) shutdown() {
	close(h.done)
	for userID, room := range h.rooms {
		for c := range room.Clients {
			close(c.send)
		}
		delete(h.rooms, userID)
	}
	h.logger.Info("notification hub stopped")
}
