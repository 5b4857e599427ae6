package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRateLimiter(t testing.TB, maxRequests int, window, blockTime time.Duration) (*RateLimiter, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	rl := NewRateLimiter(client, RateLimiterConfig{
		MaxRequests: maxRequests,
		Window:      window,
		BlockTime:   blockTime,
	})
	return rl, mr
}

func limitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.Middleware())
	router.POST("/auth/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})
	return router
}

func hit(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_AllowsRequestsUnderLimit(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 5, time.Minute, 0)
	router := limitedRouter(rl)

	for i := 0; i < 5; i++ {
		w := hit(router, "192.168.1.1")
		assert.Equal(t, http.StatusOK, w.Code, "Request %d should succeed", i+1)
	}
}

func TestRateLimiter_BlocksRequestsOverLimit(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 5, time.Minute, 0)
	router := limitedRouter(rl)

	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusOK, hit(router, "192.168.1.1").Code)
	}

	w := hit(router, "192.168.1.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code, "6th request should be rate limited")
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimiter_DifferentIPsIndependent(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 3, time.Minute, 0)
	router := limitedRouter(rl)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(router, "192.168.1.1").Code, "IP1 request %d should succeed", i+1)
	}
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(router, "192.168.1.2").Code, "IP2 request %d should succeed", i+1)
	}

	assert.Equal(t, http.StatusTooManyRequests, hit(router, "192.168.1.1").Code)
}

func TestRateLimiter_WindowExpiry(t *testing.T) {
	rl, mr := setupTestRateLimiter(t, 2, time.Second, 0)
	ctx := context.Background()
	ip := "192.168.1.100"

	for i := 0; i < 2; i++ {
		allowed, _, err := rl.CheckLimit(ctx, ip)
		require.NoError(t, err)
		assert.True(t, allowed, "Request %d should be allowed", i+1)
	}

	allowed, retryAfter, err := rl.CheckLimit(ctx, ip)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))

	mr.FastForward(2 * time.Second)

	allowed, _, err = rl.CheckLimit(ctx, ip)
	require.NoError(t, err)
	assert.True(t, allowed, "Request should be allowed after window expires")
}

func TestRateLimiter_BlockOutlivesWindow(t *testing.T) {
	rl, mr := setupTestRateLimiter(t, 1, time.Second, time.Minute)
	ctx := context.Background()
	ip := "10.0.0.7"

	allowed, _, err := rl.CheckLimit(ctx, ip)
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, retryAfter, err := rl.CheckLimit(ctx, ip)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, time.Minute, retryAfter)

	// window rolled over but the lockout has not
	mr.FastForward(5 * time.Second)
	allowed, _, err = rl.CheckLimit(ctx, ip)
	require.NoError(t, err)
	assert.False(t, allowed)

	mr.FastForward(time.Minute)
	allowed, _, err = rl.CheckLimit(ctx, ip)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiter_BanAndUnban(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 100, time.Minute, 0)
	router := limitedRouter(rl)
	ctx := context.Background()
	ip := "192.168.1.100"

	banned, err := rl.IsIPBanned(ctx, ip)
	require.NoError(t, err)
	assert.False(t, banned)

	require.NoError(t, rl.BanIP(ctx, ip))
	require.NoError(t, rl.BanIP(ctx, "10.0.0.1"))

	ips, err := rl.BannedIPs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", ip}, ips)

	w := hit(router, ip)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "banned")

	require.NoError(t, rl.UnbanIP(ctx, ip))
	assert.Equal(t, http.StatusOK, hit(router, ip).Code)
}

func TestRateLimiter_FailsOpenWhenRedisDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	rl := NewRateLimiter(client, RateLimiterConfig{MaxRequests: 1, Window: time.Minute})
	router := limitedRouter(rl)

	mr.Close()

	assert.Equal(t, http.StatusOK, hit(router, "192.168.1.1").Code)
	assert.Equal(t, http.StatusOK, hit(router, "192.168.1.1").Code)
}

func BenchmarkRateLimiter_CheckLimit(b *testing.B) {
	rl, _ := setupTestRateLimiter(b, 1000000, time.Minute, 0)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = rl.CheckLimit(ctx, "192.168.1.100")
	}
}
