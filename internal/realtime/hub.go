package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// PingInterval and PongWait are the heartbeat timings in seconds.
	PingInterval = 30
	PongWait     = 60

	// EventViewerCount carries the number of open guestbook connections for a room.
	EventViewerCount = "viewer_count"
)

// Hub maintains invitation id -> set of guestbook connections and broadcasts events.
// With Redis configured, events go through pub/sub so every instance delivers them once.
type Hub struct {
	rooms    map[uuid.UUID]map[string]*Client
	subs     map[uuid.UUID]func() // cancels the Redis subscription per room
	mu       sync.RWMutex
	logger   *zap.Logger
	redis    RedisPublisher
	redisSub RedisSubscriber
}

// RedisPublisher publishes room events for cross-instance broadcast.
type RedisPublisher interface {
	PublishRoomEvent(ctx context.Context, invitationID uuid.UUID, event string, payload []byte) error
}

// RedisSubscriber subscribes to room channels and invokes handler for incoming events.
type RedisSubscriber interface {
	SubscribeRoom(invitationID uuid.UUID, handler func(event string, payload []byte)) (cancel func(), err error)
}

// NewHub creates a guestbook hub. Both Redis arguments may be nil for a single instance.
func NewHub(logger *zap.Logger, redisPub RedisPublisher, redisSub RedisSubscriber) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		rooms:    make(map[uuid.UUID]map[string]*Client),
		subs:     make(map[uuid.UUID]func()),
		logger:   logger,
		redis:    redisPub,
		redisSub: redisSub,
	}
}

// Register adds a client to its room, subscribing the room to Redis on first join.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.rooms[c.InvitationID] == nil {
		h.rooms[c.InvitationID] = make(map[string]*Client)
		if h.redisSub != nil {
			room := c.InvitationID
			cancel, err := h.redisSub.SubscribeRoom(room, func(event string, payload []byte) {
				h.Broadcast(room, event, json.RawMessage(payload))
			})
			if err != nil {
				h.logger.Warn("guestbook redis subscribe failed", zap.String("invitation_id", room.String()), zap.Error(err))
			} else {
				h.subs[room] = cancel
			}
		}
	}
	h.rooms[c.InvitationID][c.ID] = c
	count := len(h.rooms[c.InvitationID])
	h.mu.Unlock()

	h.Broadcast(c.InvitationID, EventViewerCount, map[string]int{"count": count})
	h.logger.Debug("guestbook viewer joined", zap.String("client_id", c.ID), zap.String("invitation_id", c.InvitationID.String()))
}

// Unregister removes a client. The last client out cancels the room's Redis subscription.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	count := 0
	if m, ok := h.rooms[c.InvitationID]; ok {
		if _, present := m[c.ID]; present {
			delete(m, c.ID)
			close(c.send)
		}
		count = len(m)
		if count == 0 {
			delete(h.rooms, c.InvitationID)
			if cancel, ok := h.subs[c.InvitationID]; ok {
				cancel()
				delete(h.subs, c.InvitationID)
			}
		}
	}
	h.mu.Unlock()

	if count > 0 {
		h.Broadcast(c.InvitationID, EventViewerCount, map[string]int{"count": count})
	}
	h.logger.Debug("guestbook viewer left", zap.String("client_id", c.ID), zap.String("invitation_id", c.InvitationID.String()))
}

// Broadcast sends an event to the clients connected to this instance.
func (h *Hub) Broadcast(invitationID uuid.UUID, event string, payload interface{}) {
	var data []byte
	switch v := payload.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		var err error
		if data, err = json.Marshal(payload); err != nil {
			h.logger.Warn("marshal guestbook event", zap.String("event", event), zap.Error(err))
			return
		}
	}
	msg := WSMessage{Event: event, Data: data}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.rooms[invitationID] {
		select {
		case c.send <- msg:
		default:
			// slow client; drop
		}
	}
}

// Publish delivers a guestbook event to every viewer of the invitation. With Redis the
// subscriber callback performs the broadcast, so local clients are not sent a duplicate.
func (h *Hub) Publish(ctx context.Context, invitationID uuid.UUID, event string, payload interface{}) {
	if h.redis == nil {
		h.Broadcast(invitationID, event, payload)
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Warn("marshal guestbook event", zap.String("event", event), zap.Error(err))
		return
	}
	if err := h.redis.PublishRoomEvent(ctx, invitationID, event, data); err != nil {
		h.logger.Warn("guestbook redis publish failed, broadcasting locally", zap.Error(err))
		h.Broadcast(invitationID, event, json.RawMessage(data))
	}
}

// ViewerCount returns the number of local connections watching an invitation.
func (h *Hub) ViewerCount(invitationID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[invitationID])
}

// Close disconnects every client and cancels all Redis subscriptions.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room, clients := range h.rooms {
		for id, c := range clients {
			close(c.send)
			delete(clients, id)
		}
		delete(h.rooms, room)
	}
	for room, cancel := range h.subs {
		cancel()
		delete(h.subs, room)
	}
}
