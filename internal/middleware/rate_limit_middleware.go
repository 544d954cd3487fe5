package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"sijuk_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a fixed-window counter keyed by client IP. Windows are
// tracked in memory; a multi-instance deployment would need a shared
// store, which is out of scope here.
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	clients map[string]*rateWindow
}

type rateWindow struct {
	count       int
	windowStart time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		clients: make(map[string]*rateWindow),
	}
}

// allow records a hit for the key and reports whether it fits the window,
// along with the remaining budget and the window reset time.
func (rl *RateLimiter) allow(key string, now time.Time) (bool, int, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.clients[key]
	if !ok || now.Sub(entry.windowStart) >= rl.window {
		entry = &rateWindow{windowStart: now}
		rl.clients[key] = entry
		rl.pruneLocked(now)
	}

	reset := entry.windowStart.Add(rl.window)
	if entry.count >= rl.limit {
		return false, 0, reset
	}
	entry.count++
	return true, rl.limit - entry.count, reset
}

// pruneLocked drops expired windows. Called with the mutex held, on the
// window-rollover path so it cannot run on every request.
func (rl *RateLimiter) pruneLocked(now time.Time) {
	for key, entry := range rl.clients {
		if now.Sub(entry.windowStart) >= rl.window {
			delete(rl.clients, key)
		}
	}
}

// Middleware returns the gin handler enforcing the limit. Responses carry
// X-RateLimit-Limit, X-RateLimit-Remaining and X-RateLimit-Reset; rejected
// requests get 429 with Retry-After.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		allowed, remaining, reset := rl.allow(c.ClientIP(), now)

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if !allowed {
			retryAfter := int(reset.Sub(now).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			utils.RespondWithError(c, utils.NewAPIError(http.StatusTooManyRequests, utils.ErrCodeTooManyRequests,
				"Too many requests, please slow down.", ""))
			return
		}

		c.Next()
	}
}
