package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const notifyQueueKey = "ocorrencias_notificacoes"

// Publisher queues notification events for asynchronous delivery. A failed
// publish is logged by the caller and never blocks the cycle.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// RedisPublisher implements Publisher on a Redis list.
type RedisPublisher struct {
	redisClient *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{
		redisClient: client,
	}
}

// Publish pushes the event onto the left side of the delivery queue.
func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}

	if err := p.redisClient.LPush(ctx, notifyQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notification event to Redis: %w", err)
	}
	return nil
}
