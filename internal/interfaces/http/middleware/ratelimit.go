package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/marketplace/backend/internal/domain/shared"
)

// RateLimiter is an in-memory fixed window limiter keyed by client
type RateLimiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	period   time.Duration
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

type window struct {
	used  int
	start time.Time
}

// Quota is what a key has left in its current window
type Quota struct {
	Limit     int
	Remaining int
	// Reset is the time until the window rolls over
	Reset time.Duration
}

// NewRateLimiter allows limit requests per key in every period
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	rl := &RateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go rl.evictLoop()
	return rl
}

// evictLoop drops windows idle for two periods
func (rl *RateLimiter) evictLoop() {
	ticker := time.NewTicker(rl.period * 2)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for key, w := range rl.windows {
				if now.Sub(w.start) > rl.period*2 {
					delete(rl.windows, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Stop ends the eviction goroutine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Take spends one request from key's window. ok is false once the window
// is used up; the quota is returned either way.
func (rl *RateLimiter) Take(key string) (q Quota, ok bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, exists := rl.windows[key]
	if !exists || now.Sub(w.start) >= rl.period {
		w = &window{start: now}
		rl.windows[key] = w
	}
	if w.used < rl.limit {
		w.used++
		ok = true
	}
	return Quota{
		Limit:     rl.limit,
		Remaining: rl.limit - w.used,
		Reset:     w.start.Add(rl.period).Sub(now),
	}, ok
}

// RateLimit throttles every request by client IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return throttle(limiter, "ip:")
}

// LoginRateLimit throttles credential checks by client IP. Its budget is
// kept apart from the global one even when both share a limiter.
func LoginRateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return throttle(limiter, "login:")
}

func throttle(limiter *RateLimiter, prefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		quota, ok := limiter.Take(prefix + c.ClientIP())
		c.Header("X-RateLimit-Limit", strconv.Itoa(quota.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(quota.Remaining))
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(quota.Reset.Seconds()))))
			abortWith(c, shared.ErrRateLimited)
			return
		}
		c.Next()
	}
}
