package stream

import (
	"context"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Hub fans validated check-ins out to dashboards subscribed to a gym's
// live feed. With redis configured, feeds replicate across instances via
// pub/sub; without it the hub degrades to in-process fan-out.
type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	GymID string
	Send  chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(gymID string) *Client {
	client := &Client{
		GymID: gymID,
		Send:  make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[gymID] == nil {
		h.clients[gymID] = map[*Client]struct{}{}
	}
	h.clients[gymID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if gymClients, ok := h.clients[client.GymID]; ok {
		delete(gymClients, client)
		if len(gymClients) == 0 {
			delete(h.clients, client.GymID)
		}
	}
	close(client.Send)
}

// Broadcast delivers a feed event to the gym's subscribers. With redis
// configured, delivery goes through the pattern subscription only, so every
// instance, the publishing one included, sees the event exactly once.
// Without redis, or when the publish fails, it falls back to in-process
// fan-out.
func (h *Hub) Broadcast(gymID string, payload []byte) {
	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(gymID), payload).Err()
		if err == nil {
			return
		}
		log.Printf("redis publish error: %v", err)
	}
	h.deliver(gymID, payload)
}

// deliver sends under the read lock so Unregister cannot close a channel
// mid-send.
func (h *Hub) deliver(gymID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[gymID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "checkins:*:feed")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.deliver(gymIDFromChannel(msg.Channel), []byte(msg.Payload))
	}
}

func redisChannel(gymID string) string {
	return "checkins:" + gymID + ":feed"
}

func gymIDFromChannel(ch string) string {
	// checkins:{gym}:feed
	const prefix = "checkins:"
	const suffix = ":feed"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
