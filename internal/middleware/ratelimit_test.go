package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCheckRateLimit_FixedWindow(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := CheckRateLimit(ctx, rdb, "like", "ip:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "hit %d should be allowed", i+1)
	}

	allowed, err := CheckRateLimit(ctx, rdb, "like", "ip:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.True(t, mr.TTL("rl:like:ip:1.2.3.4") > 0)

	mr.FastForward(time.Minute + time.Second)
	allowed, err = CheckRateLimit(ctx, rdb, "like", "ip:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed, "window should reset")
}

func TestCheckRateLimit_NilRedis(t *testing.T) {
	allowed, err := CheckRateLimit(context.Background(), nil, "like", "ip:1", 1, time.Minute)
	assert.Error(t, err)
	assert.False(t, allowed)
}

func TestRateLimit_Middleware(t *testing.T) {
	_, rdb := newMiniRedis(t)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(false)})
	app.Post("/like", RateLimit(rdb, 2, time.Minute, "like"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/like", nil))
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
}

func TestRateLimit_FailOpenWhenRedisDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(false)})
	app.Post("/like", RateLimit(rdb, 1, time.Minute, "like"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 3; i++ {
		resp, testErr := app.Test(httptest.NewRequest(http.MethodPost, "/like", nil), 5000)
		require.NoError(t, testErr)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestRateLimit_FailClosedWithoutRedis(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(false)})
	app.Post("/x", RateLimitWithPolicy(nil, 1, time.Minute, FailClosed, "x"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/x", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestLoginThrottle(t *testing.T) {
	throttle := NewLoginThrottle(2)
	now := time.Unix(1700000000, 0)
	throttle.now = func() time.Time { return now }

	assert.True(t, throttle.Allow("1.1.1.1"))
	assert.True(t, throttle.Allow("1.1.1.1"))
	assert.False(t, throttle.Allow("1.1.1.1"), "burst exhausted")
	assert.True(t, throttle.Allow("2.2.2.2"), "other IPs are independent")

	now = now.Add(30 * time.Second)
	assert.True(t, throttle.Allow("1.1.1.1"), "one token refills every 30s")
}

func TestLoginThrottle_SweepsIdleVisitors(t *testing.T) {
	throttle := NewLoginThrottle(5)
	now := time.Unix(1700000000, 0)
	throttle.now = func() time.Time { return now }

	throttle.Allow("1.1.1.1")
	now = now.Add(time.Hour)
	throttle.Allow("2.2.2.2")

	throttle.mu.Lock()
	defer throttle.mu.Unlock()
	assert.NotContains(t, throttle.visitors, "1.1.1.1")
	assert.Contains(t, throttle.visitors, "2.2.2.2")
}

func TestLoginThrottle_Disabled(t *testing.T) {
	throttle := NewLoginThrottle(0)
	for i := 0; i < 100; i++ {
		assert.True(t, throttle.Allow("1.1.1.1"))
	}
}

func TestLoginThrottle_Handler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(false)})
	app.Post("/login", NewLoginThrottle(1).Handler(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	first, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
	require.NoError(t, err)
	second, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, first.StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
}
