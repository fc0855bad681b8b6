package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time // 零值表示不过期
}

// MemoryStore Store 接口的进程内实现，Redis 未启用时使用
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryEntry
	now   func() time.Time
}

// NewMemory 创建进程内缓存实例
func NewMemory() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryEntry),
		now:   time.Now,
	}
}

// GetJSON 获取缓存值，未命中或已过期时返回 false
func (ms *MemoryStore) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	ms.mu.RLock()
	entry, ok := ms.items[key]
	ms.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if !entry.expiresAt.IsZero() && ms.now().After(entry.expiresAt) {
		ms.mu.Lock()
		delete(ms.items, key)
		ms.mu.Unlock()
		return false, nil
	}
	if err := json.Unmarshal(entry.data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON 设置缓存值
func (ms *MemoryStore) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	entry := memoryEntry{data: data}
	if ttl > 0 {
		entry.expiresAt = ms.now().Add(ttl)
	}

	ms.mu.Lock()
	ms.items[key] = entry
	ms.mu.Unlock()
	return nil
}

// Delete 删除缓存
func (ms *MemoryStore) Delete(ctx context.Context, keys ...string) error {
	ms.mu.Lock()
	for _, key := range keys {
		delete(ms.items, key)
	}
	ms.mu.Unlock()
	return nil
}

// Close 实现 Store 接口，无资源可释放
func (ms *MemoryStore) Close() error {
	return nil
}
