package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	domainerror "github.com/finance-tracker/txcache/internal/domain/error"
	"github.com/finance-tracker/txcache/internal/integration/entrypoint/dto"
)

// refreshWindow counts the requests of one key inside a fixed window.
type refreshWindow struct {
	used    int
	resetAt time.Time
}

// RateLimiter allows a fixed number of requests per identity and window.
// Requests without an identity are keyed by client IP.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*refreshWindow
	limit   int
	every   time.Duration
	now     func() time.Time
}

// NewRateLimiter allows limit requests per key every period.
func NewRateLimiter(limit int, every time.Duration) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*refreshWindow),
		limit:   limit,
		every:   every,
		now:     time.Now,
	}
}

// Middleware rejects requests over the limit with 429 and a Retry-After header.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := GetIdentityFromContext(c)
		if !ok {
			key = c.ClientIP()
			if key == "" {
				key = c.Request.RemoteAddr
			}
		}

		remaining, wait := rl.take(key)
		if wait > 0 {
			c.Header("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error: "Too many refreshes. Please try again later.",
				Code:  string(domainerror.ErrCodeRefreshRateLimited),
			})
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Next()
	}
}

// take spends one request of key. It returns the requests left in the window,
// or a positive wait when the window is exhausted.
func (rl *RateLimiter) take(key string) (int, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	w, ok := rl.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &refreshWindow{resetAt: now.Add(rl.every)}
		rl.windows[key] = w
	}

	if w.used >= rl.limit {
		return 0, w.resetAt.Sub(now)
	}
	w.used++
	return rl.limit - w.used, 0
}

// Reset forgets every window.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.windows = make(map[string]*refreshWindow)
}

// Cleanup drops expired windows. main runs it periodically.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, w := range rl.windows {
		if now.After(w.resetAt) {
			delete(rl.windows, key)
		}
	}
}
