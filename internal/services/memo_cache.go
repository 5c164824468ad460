package services

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// MemoCache is the explicitly injected in-process snapshot cache for
// catalog collections. Entries are immutable snapshots so concurrent
// readers are safe; a background janitor sweeps expired entries.
type MemoCache struct {
	mu      sync.RWMutex
	entries map[string]memoEntry
	hits    int64
	misses  int64

	stop     chan struct{}
	stopOnce sync.Once
	logger   *logrus.Logger
}

type memoEntry struct {
	value     interface{}
	expiresAt time.Time
}

// CacheStats is a point-in-time snapshot of cache effectiveness.
type CacheStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

func NewMemoCache(sweepInterval time.Duration, logger *logrus.Logger) *MemoCache {
	cache := &MemoCache{
		entries: make(map[string]memoEntry),
		stop:    make(chan struct{}),
		logger:  logger,
	}

	if sweepInterval > 0 {
		go cache.janitor(sweepInterval)
	}

	return cache
}

func (c *MemoCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		if ok {
			delete(c.entries, key)
		}
		c.misses++
		return nil, false
	}

	c.hits++
	return entry.value, true
}

func (c *MemoCache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

func (c *MemoCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

func (c *MemoCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]memoEntry)
}

func (c *MemoCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return CacheStats{
		Entries: len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
	}
}

// Close stops the janitor. Safe to call more than once.
func (c *MemoCache) Close() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

func (c *MemoCache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stop:
			return
		}
	}
}

func (c *MemoCache) sweep() {
	now := time.Now()

	c.mu.Lock()
	removed := 0
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	c.mu.Unlock()

	if removed > 0 && c.logger != nil {
		c.logger.WithField("removed", removed).Debug("Swept expired cache entries")
	}
}
