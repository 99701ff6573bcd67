package middleware

import (
	"net/http/httptest"
	"testing"

	"bizdocs/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{Requests: 3, WindowSec: 60})

	// The burst covers the configured request budget.
	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "request %d should pass", i+1)
	}
	assert.False(t, rl.Allow("10.0.0.1"), "request over budget should be rejected")

	// A different client has its own budget.
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimiterDefaults(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{})

	for i := 0; i < 10; i++ {
		assert.True(t, rl.Allow("10.0.0.1"))
	}
	assert.False(t, rl.Allow("10.0.0.1"))
}

func TestRateLimiterHandler(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{Requests: 1, WindowSec: 60})

	app := fiber.New()
	app.Use(rl.Handler())
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	resp, _ := app.Test(req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = app.Test(httptest.NewRequest("GET", "/test", nil))
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}
