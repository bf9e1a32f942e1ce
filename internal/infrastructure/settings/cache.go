package settings

import (
	"context"
	"sync"
	"time"

	"ContentPilot/internal/ports"
)

const defaultTTL = 60 * time.Second

// Cache wraps a SettingsSource and serves a snapshot for a fixed TTL,
// so the automation loop does not hit storage on every tick. On a
// source error the previous snapshot is served stale rather than
// failing the tick.
type Cache struct {
	source ports.SettingsSource
	ttl    time.Duration
	now    func() time.Time

	mu      sync.RWMutex
	values  map[string]string
	fetched time.Time
}

var _ ports.SettingsSource = (*Cache)(nil)

func NewCache(source ports.SettingsSource, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{source: source, ttl: ttl, now: time.Now}
}

func (c *Cache) Settings(ctx context.Context) (map[string]string, error) {
	c.mu.RLock()
	if c.values != nil && c.now().Sub(c.fetched) < c.ttl {
		snapshot := c.values
		c.mu.RUnlock()
		return snapshot, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.values != nil && c.now().Sub(c.fetched) < c.ttl {
		return c.values, nil
	}

	fresh, err := c.source.Settings(ctx)
	if err != nil {
		if c.values != nil {
			return c.values, nil
		}
		return nil, err
	}

	c.values = fresh
	c.fetched = c.now()
	return c.values, nil
}
