// Package cache 提供查询结果缓存，支持 Redis 与进程内两种实现，统一 JSON 序列化
package cache

import (
	"context"
	"time"
)

// Store 缓存存取接口。GetJSON 返回是否命中；SetJSON ttl 为 0 表示不过期。
type Store interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
