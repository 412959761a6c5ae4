package ratelimit

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/starbite-api/pkg/util"
)

// Middleware limits requests per client IP. When Redis is unavailable the
// request is let through.
func Middleware(limiter *Limiter, scope string, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := limiter.Allow(c.UserContext(), scope+":"+c.IP())
		if err != nil {
			logger.Warn("rate limit check failed", zap.String("scope", scope), zap.Error(err))
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime, 10))

		if !result.Allowed {
			return apperrors.NewTooManyRequests(map[string]any{
				"limit":      result.Limit,
				"reset_time": result.ResetTime,
			})
		}
		return c.Next()
	}
}
