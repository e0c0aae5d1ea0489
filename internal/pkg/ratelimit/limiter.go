package ratelimit

import (
	"context"
	"time"

	"ai-imagegen-be/internal/pkg/logger"
	"ai-imagegen-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/redis/go-redis/v9"
)

// NewStorage returns Redis-backed storage when redisURL is reachable, otherwise
// an in-process cache.
func NewStorage(redisURL string, log logger.ILogger) (fiber.Storage, *redis.Client) {
	if redisURL == "" {
		return NewMemoryStorage(), nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn("RateLimit", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: redisURL}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("RateLimit", "Redis unreachable, falling back to in-memory limiter", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return NewMemoryStorage(), nil
	}

	return NewRedisStorage(rdb, "ratelimit:"), rdb
}

// New builds a limiter keyed by authenticated user when present, else by IP.
func New(storage fiber.Storage, max int, window time.Duration, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		Storage:    storage,
		KeyGenerator: func(ctx *fiber.Ctx) string {
			if uid, ok := ctx.Locals("user_id").(string); ok && uid != "" {
				return "user:" + uid
			}
			return "ip:" + ctx.IP()
		},
		LimitReached: func(ctx *fiber.Ctx) error {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(serverutils.ErrorResponse(fiber.StatusTooManyRequests, message))
		},
	})
}
