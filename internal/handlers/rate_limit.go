package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/studenthub/marketplace-service/internal/utils"
)

// RateLimiter implements a fixed-window counter backed by redis. Without
// a redis client it lets everything through so the service still works
// in degraded mode.
type RateLimiter struct {
	client *redis.Client
	logger utils.Logger
}

func NewRateLimiter(client *redis.Client, logger utils.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		logger: logger,
	}
}

// Limit restricts each client IP to maxRequests per window on the
// routes it wraps.
func (rl *RateLimiter) Limit(maxRequests int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.client == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("ratelimit:%s:%s", c.FullPath(), c.ClientIP())

		count, err := rl.client.Incr(ctx, key).Result()
		if err != nil {
			rl.logger.Warn("Rate limit counter unavailable, allowing request",
				"error", err,
				"client_ip", c.ClientIP())
			c.Next()
			return
		}

		if count == 1 {
			if err := rl.client.Expire(ctx, key, window).Err(); err != nil {
				rl.logger.Warn("Failed to set rate limit window", "error", err, "key", key)
			}
		}

		if count > maxRequests {
			retryAfter, err := rl.client.TTL(ctx, key).Result()
			if err != nil || retryAfter < 0 {
				retryAfter = window
			}
			c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))
			c.JSON(http.StatusTooManyRequests, ErrorResponse{
				Message: "Too many requests, please try again later",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
