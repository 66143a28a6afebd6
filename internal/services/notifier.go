package services

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"studypack-backend/internal/models"
)

// Notifier delivers pipeline events to a user. Delivery is best effort.
type Notifier interface {
	Publish(ctx context.Context, userID uuid.UUID, msg models.WSMessage)
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) Publish(context.Context, uuid.UUID, models.WSMessage) {}

// RedisNotifier publishes events on the user's pack_updates channel, where
// the websocket hub picks them up.
type RedisNotifier struct {
	client *redis.Client
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

func (n *RedisNotifier) Publish(ctx context.Context, userID uuid.UUID, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("encode %s event: %v", msg.Type, err)
		return
	}
	if err := n.client.Publish(ctx, models.UpdatesChannel(userID), data).Err(); err != nil {
		log.Printf("publish %s event for user %s: %v", msg.Type, userID, err)
	}
}
