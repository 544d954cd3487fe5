package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRateLimitedRouter(limit int, window time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(NewRateLimiter(limit, window).Middleware())
	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return engine
}

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	engine := newRateLimitedRouter(3, time.Minute)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimiterRejectsOverLimit(t *testing.T) {
	engine := newRateLimitedRouter(2, time.Minute)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
}

func TestRateLimiterRemainingHeaderCountsDown(t *testing.T) {
	engine := newRateLimitedRouter(3, time.Minute)

	expected := []string{"2", "1", "0"}
	for _, want := range expected {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, want, w.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestRateLimiterWindowRollover(t *testing.T) {
	rl := NewRateLimiter(1, 50*time.Millisecond)

	allowed, _, _ := rl.allow("10.0.0.1", time.Now())
	require.True(t, allowed)

	allowed, _, _ = rl.allow("10.0.0.1", time.Now())
	require.False(t, allowed)

	// Advancing past the window opens a fresh budget and prunes the old
	// entry for other keys.
	later := time.Now().Add(60 * time.Millisecond)
	allowed, remaining, _ := rl.allow("10.0.0.1", later)
	assert.True(t, allowed)
	assert.Equal(t, 0, remaining)
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	now := time.Now()

	allowed, _, _ := rl.allow("10.0.0.1", now)
	require.True(t, allowed)
	allowed, _, _ = rl.allow("10.0.0.1", now)
	require.False(t, allowed)

	allowed, _, _ = rl.allow("10.0.0.2", now)
	assert.True(t, allowed)
}
