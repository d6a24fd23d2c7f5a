// Package admission implements the token-bucket rate limiter gating game
// creation, keyed by caller identity. Each identity's bucket is a
// golang.org/x/time/rate.Limiter configured with Burst = capacity and
// Limit = capacity/60 (per-second refill derived from the per-minute
// quota) — exactly the "tokens = min(capacity, tokens + elapsed*rate)"
// refill rule, so no bucket arithmetic is hand-rolled here.
package admission

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Controller admits or rejects game-creation requests per identity.
type Controller struct {
	capacity   int
	refillRate rate.Limit

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// New builds a Controller where each identity may make gamesPerMinute
// creation requests per minute, bursting up to that same quota.
func New(gamesPerMinute int) *Controller {
	return &Controller{
		capacity:   gamesPerMinute,
		refillRate: rate.Limit(float64(gamesPerMinute) / 60.0),
		buckets:    make(map[string]*rate.Limiter),
	}
}

// Allow reports whether identity is admitted to create a game right now,
// consuming one token if so.
func (c *Controller) Allow(identity string) bool {
	return c.limiterFor(identity).Allow()
}

func (c *Controller) limiterFor(identity string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.buckets[identity]
	if !ok {
		l = rate.NewLimiter(c.refillRate, c.capacity)
		c.buckets[identity] = l
	}
	return l
}

// GC drops buckets that are empty and fully refilled, bounding long-term
// memory growth from one-off identities. Called periodically by the Reaper
// alongside its own idle-game sweep, since both exist to keep
// attacker-influenceable keys (identity strings, game ids) from
// accumulating for the life of the process.
func (c *Controller) GC() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for identity, l := range c.buckets {
		if l.TokensAt(now) >= float64(c.capacity) {
			delete(c.buckets, identity)
		}
	}
}
