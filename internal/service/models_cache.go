package service

import (
	"sync"
	"time"

	"github.com/set-night/swifthub/internal/domain"
)

// ModelsCache keeps the provider catalogue for ttl. It owns its slice: Set
// stores a copy and Get hands out a copy, so callers may sort or filter the
// result freely.
type ModelsCache struct {
	mu       sync.RWMutex
	models   []domain.AIModel
	cachedAt time.Time
	ttl      time.Duration
	now      func() time.Time
}

func NewModelsCache(ttl time.Duration) *ModelsCache {
	return &ModelsCache{ttl: ttl, now: time.Now}
}

// Get returns a copy of the catalogue, or nil when nothing is cached or the
// entry is older than ttl. A non-positive ttl disables caching.
func (c *ModelsCache) Get() []domain.AIModel {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.models == nil || c.ttl <= 0 || c.now().Sub(c.cachedAt) > c.ttl {
		return nil
	}
	return append([]domain.AIModel(nil), c.models...)
}

// Set replaces the catalogue and restarts the ttl.
func (c *ModelsCache) Set(models []domain.AIModel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.models = append(make([]domain.AIModel, 0, len(models)), models...)
	c.cachedAt = c.now()
}
