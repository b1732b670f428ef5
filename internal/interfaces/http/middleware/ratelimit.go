package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noltshop/backend/internal/interfaces/http/dto"
)

// RateLimiter is a sliding-window limiter keyed by client
type RateLimiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	windows map[string][]time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limit:   limit,
		window:  window,
		windows: make(map[string][]time.Time),
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-rl.window)
		rl.mu.Lock()
		for key, hits := range rl.windows {
			kept := hits[:0]
			for _, hit := range hits {
				if hit.After(cutoff) {
					kept = append(kept, hit)
				}
			}
			if len(kept) == 0 {
				delete(rl.windows, key)
			} else {
				rl.windows[key] = kept
			}
		}
		rl.mu.Unlock()
	}
}

// Allow reports whether the key may make another request now
func (rl *RateLimiter) Allow(key string) bool {
	now := time.Now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	hits := rl.windows[key]
	kept := hits[:0]
	for _, hit := range hits {
		if hit.After(cutoff) {
			kept = append(kept, hit)
		}
	}
	if len(kept) >= rl.limit {
		rl.windows[key] = kept
		return false
	}
	rl.windows[key] = append(kept, now)
	return true
}

// Remaining returns how many requests the key has left in the window
func (rl *RateLimiter) Remaining(key string) int {
	cutoff := time.Now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	used := 0
	for _, hit := range rl.windows[key] {
		if hit.After(cutoff) {
			used++
		}
	}
	if used >= rl.limit {
		return 0
	}
	return rl.limit - used
}

// RateLimit limits requests per client IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return RateLimitByKey(limiter, func(c *gin.Context) string {
		return c.ClientIP()
	})
}

// RateLimitByKey limits requests using a caller-provided key function
func RateLimitByKey(limiter *RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)
		c.Writer.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.limit))

		if !limiter.Allow(key) {
			c.Writer.Header().Set("X-RateLimit-Remaining", "0")
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponse(dto.ErrCodeRateLimited, "Rate limit exceeded"))
			return
		}

		c.Writer.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))
		c.Next()
	}
}
