package serverutils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	gocache "github.com/patrickmn/go-cache"
)

// RateLimiter enforces a fixed-window per-user request quota. Counters live
// in process memory; each replica enforces its own quota.
type RateLimiter struct {
	counters *gocache.Cache
	limit    int
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 20
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		counters: gocache.New(window, window),
		limit:    limit,
	}
}

// Middleware counts requests per user id (falling back to the client IP for
// unauthenticated probes) and answers 429 above the limit.
func (rl *RateLimiter) Middleware(ctx *fiber.Ctx) error {
	key, _ := ctx.Locals("user_id").(string)
	if key == "" {
		key = ctx.IP()
	}

	count, err := rl.counters.IncrementInt(key, 1)
	if err != nil {
		rl.counters.SetDefault(key, 1)
		count = 1
	}

	if count > rl.limit {
		return ctx.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse(fiber.StatusTooManyRequests, "Rate limit exceeded, try again later"))
	}
	return ctx.Next()
}
