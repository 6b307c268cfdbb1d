package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/nurpe/workhub-contracts/internal/model"
)

// RedisNotifier publishes notification events to a Redis channel for the
// delivery service to pick up. Delivery is at-most-once: publish errors are
// the caller's to log and swallow.
type RedisNotifier struct {
	client  *redis.Client
	channel string
}

func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel}
}

func NewRedisClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
}

func (n *RedisNotifier) Notify(ctx context.Context, notification model.Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	return n.client.Publish(ctx, n.channel, payload).Err()
}
