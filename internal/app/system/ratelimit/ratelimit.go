// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"sync"
	"time"
)

// Cooldown is a single-action-per-window rate limiter, used to throttle
// repeat join requests. It is safe for concurrent use.
//
// CheckAndRecord allows the first call for a key and denies subsequent calls
// until the window elapses. Allowing records the key, so check and record
// are one atomic step.
type Cooldown struct {
	mu      sync.Mutex
	entries map[string]time.Time // key -> window expiry
	cleanup time.Duration
}

// NewCooldown creates an in-memory cooldown limiter. cleanupEvery controls
// how often expired entries are swept; pass 0 for a sensible default.
func NewCooldown(cleanupEvery time.Duration) *Cooldown {
	if cleanupEvery <= 0 {
		cleanupEvery = 5 * time.Minute
	}
	c := &Cooldown{
		entries: make(map[string]time.Time),
		cleanup: cleanupEvery,
	}
	go c.cleanupLoop()
	return c
}

// CheckAndRecord reports whether the action is allowed for the key, and if
// so starts the cooldown window.
func (c *Cooldown) CheckAndRecord(key string, window time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if expiry, ok := c.entries[key]; ok && now.Before(expiry) {
		return false
	}
	c.entries[key] = now.Add(window)
	return true
}

// Reset clears the cooldown for a key.
func (c *Cooldown) Reset(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// cleanupLoop periodically removes expired entries to bound memory.
func (c *Cooldown) cleanupLoop() {
	ticker := time.NewTicker(c.cleanup)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, expiry := range c.entries {
			if now.After(expiry) {
				delete(c.entries, key)
			}
		}
		c.mu.Unlock()
	}
}
