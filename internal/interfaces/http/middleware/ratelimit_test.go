package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)

	assert.True(t, limiter.Allow("client-a"))
	assert.True(t, limiter.Allow("client-a"))
	assert.False(t, limiter.Allow("client-a"))

	// a different key has its own window
	assert.True(t, limiter.Allow("client-b"))
}

func TestRateLimiter_Remaining(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)

	assert.Equal(t, 3, limiter.Remaining("client-a"))
	limiter.Allow("client-a")
	assert.Equal(t, 2, limiter.Remaining("client-a"))
}

func TestRateLimiter_WindowExpiry(t *testing.T) {
	limiter := NewRateLimiter(1, 20*time.Millisecond)

	assert.True(t, limiter.Allow("client-a"))
	assert.False(t, limiter.Allow("client-a"))

	time.Sleep(30 * time.Millisecond)
	assert.True(t, limiter.Allow("client-a"))
}

func TestRateLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(NewRateLimiter(1, time.Minute)))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}
