package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/commerce-kit/backoffice-service/internal/config"
	"github.com/commerce-kit/backoffice-service/pkg/util/errorutil"
)

// LoginRateLimiter bounds login attempts per client IP and path with a
// fixed window counter in Redis. Redis being unreachable fails open; rate
// limiting is protection, not a correctness requirement.
func LoginRateLimiter(client *redis.Client, cfg config.RateLimitConfig, logger *zap.Logger) fiber.Handler {
	limit := cfg.LoginAttempts
	if limit <= 0 {
		limit = 10
	}
	window := cfg.LoginWindow()

	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("ratelimit:login:%s:%s", c.IP(), c.Path())

		count, err := client.Incr(c.Context(), key).Result()
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			return c.Next()
		}
		if count == 1 {
			if err := client.Expire(c.Context(), key, window).Err(); err != nil {
				logger.Warn("rate limiter expire failed", zap.Error(err))
			}
		}

		if count > int64(limit) {
			return errorutil.NewTooManyRequests("too many login attempts, try again later")
		}
		return c.Next()
	}
}
