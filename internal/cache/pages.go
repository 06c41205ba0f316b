// Package cache 提供以路径为键的页面缓存。
// 写操作完成后通过使某个路径失效，对应原框架的 revalidatePath。
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pageKeyPrefix = "page:"

// Pages 是 Redis 页面缓存句柄。
type Pages struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewPages 构造页面缓存；ttl 非正时默认十分钟。
func NewPages(client redis.UniversalClient, ttl time.Duration) *Pages {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Pages{client: client, ttl: ttl}
}

// Get 返回路径的缓存内容；未命中时返回 (nil, nil)。
func (p *Pages) Get(ctx context.Context, path string) ([]byte, error) {
	body, err := p.client.Get(ctx, pageKeyPrefix+path).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached page %q: %w", path, err)
	}
	return body, nil
}

// Set 缓存路径的渲染结果。
func (p *Pages) Set(ctx context.Context, path string, body []byte) error {
	if err := p.client.Set(ctx, pageKeyPrefix+path, body, p.ttl).Err(); err != nil {
		return fmt.Errorf("cache page %q: %w", path, err)
	}
	return nil
}

// Invalidate 丢弃路径的缓存输出。键不存在时也算成功。
func (p *Pages) Invalidate(ctx context.Context, path string) error {
	if err := p.client.Del(ctx, pageKeyPrefix+path).Err(); err != nil {
		return fmt.Errorf("invalidate page %q: %w", path, err)
	}
	return nil
}
