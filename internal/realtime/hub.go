package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// PingInterval and PongWait are used for heartbeat, in seconds.
	PingInterval = 30
	PongWait     = 60
)

// Hub maintains organization_id -> set of connections and broadcasts gig
// events. Uses Redis pub/sub for horizontal scaling: local broadcast plus
// publish to Redis.
type Hub struct {
	// organizationID -> map[clientID]*Client
	orgs     map[uuid.UUID]map[string]*Client
	subs     map[uuid.UUID]func() // cancel Redis subscription per organization
	mu       sync.RWMutex
	logger   *zap.Logger
	redis    RedisPublisher
	redisSub RedisSubscriber
}

// RedisPublisher publishes events to Redis for cross-instance broadcast.
type RedisPublisher interface {
	PublishOrgEvent(orgID uuid.UUID, event string, payload []byte) error
}

// RedisSubscriber subscribes to organization channels and invokes handler for
// incoming events.
type RedisSubscriber interface {
	SubscribeOrg(orgID uuid.UUID, handler func(event string, payload []byte)) (cancel func(), err error)
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *zap.Logger, redisPub RedisPublisher, redisSub RedisSubscriber) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		orgs:     make(map[uuid.UUID]map[string]*Client),
		subs:     make(map[uuid.UUID]func()),
		logger:   logger,
		redis:    redisPub,
		redisSub: redisSub,
	}
}

// Register adds a client to its organization's room. Starts the Redis
// subscription for the organization if this is the first client.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.orgs[c.OrgID] == nil {
		h.orgs[c.OrgID] = make(map[string]*Client)
		if h.redisSub != nil {
			cancel, err := h.redisSub.SubscribeOrg(c.OrgID, func(event string, payload []byte) {
				h.Broadcast(c.OrgID, event, json.RawMessage(payload))
			})
			if err == nil {
				h.subs[c.OrgID] = cancel
			}
		}
	}
	h.orgs[c.OrgID][c.ID] = c
	h.mu.Unlock()
	h.logger.Debug("client joined org channel",
		zap.String("client_id", c.ID), zap.String("organization_id", c.OrgID.String()))
}

// Unregister removes a client. Cancels the Redis subscription when the last
// client of the organization leaves.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if m, ok := h.orgs[c.OrgID]; ok {
		delete(m, c.ID)
		if len(m) == 0 {
			delete(h.orgs, c.OrgID)
			if cancel, ok := h.subs[c.OrgID]; ok {
				cancel()
				delete(h.subs, c.OrgID)
			}
		}
	}
	h.mu.Unlock()
	h.logger.Debug("client left org channel",
		zap.String("client_id", c.ID), zap.String("organization_id", c.OrgID.String()))
}

// Broadcast sends a message to all local clients of the organization.
func (h *Hub) Broadcast(orgID uuid.UUID, event string, payload interface{}) {
	var data []byte
	switch v := payload.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		data, _ = json.Marshal(payload)
	}
	msg := WSMessage{Event: event, Data: data}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.orgs[orgID]))
	for _, c := range h.orgs[orgID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			// buffer full, skip
		}
	}
}

// Publish delivers an event to the organization's subscribers. With Redis
// configured it publishes only; the subscription callback performs the local
// broadcast once for all instances, avoiding duplicate delivery. Satisfies the
// gig handler's event publisher.
func (h *Hub) Publish(_ context.Context, orgID uuid.UUID, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if h.redis != nil {
		return h.redis.PublishOrgEvent(orgID, event, data)
	}
	h.Broadcast(orgID, event, json.RawMessage(data))
	return nil
}

// ClientCount returns the number of connected clients for an organization.
func (h *Hub) ClientCount(orgID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.orgs[orgID])
}
