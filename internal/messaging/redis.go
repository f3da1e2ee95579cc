package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"bazaar_back_end/internal/models"

	"github.com/redis/go-redis/v9"
)

// OrderChannel is the pub/sub channel carrying a user's order events.
func OrderChannel(userID uint) string {
	return fmt.Sprintf("orders:%d", userID)
}

type RedisNotifier struct {
	client *redis.Client
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

func (n *RedisNotifier) Notify(ctx context.Context, evt models.OrderEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return n.client.Publish(ctx, OrderChannel(evt.UserID), payload).Err()
}

// Subscribe listens on the user's order channel. The caller closes the subscription.
func (n *RedisNotifier) Subscribe(ctx context.Context, userID uint) *redis.PubSub {
	return n.client.Subscribe(ctx, OrderChannel(userID))
}
