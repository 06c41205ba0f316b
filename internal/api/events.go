package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// blogEventsChannel 是写操作事件的 Redis 频道，WebSocket 端订阅同名频道。
const blogEventsChannel = "blog:events"

const (
	eventBlogCreated = "blog.created"
	eventBlogUpdated = "blog.updated"
	eventBlogDeleted = "blog.deleted"
)

// RedisEvents 通过 Redis Pub/Sub 广播文章事件。
type RedisEvents struct {
	client redis.UniversalClient
}

// NewRedisEvents 构造事件广播器。
func NewRedisEvents(client redis.UniversalClient) *RedisEvents {
	return &RedisEvents{client: client}
}

// Publish 序列化事件并发布；没有订阅者也不算错误。
func (e *RedisEvents) Publish(ctx context.Context, event BlogEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal blog event: %w", err)
	}
	if err := e.client.Publish(ctx, blogEventsChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish blog event: %w", err)
	}
	return nil
}
