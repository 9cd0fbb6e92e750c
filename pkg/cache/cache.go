// Package cache 提供带过期时间的键值缓存，值以 JSON 存储
package cache

import (
	"context"
	"time"
)

// Cache 未命中时 Get 返回 false 且不修改 dest
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
