package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"learnhub/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKey identifies the counter for one caller on one route. Callers
// without a user_id are keyed by client IP.
func RateLimitKey(route, caller string) string {
	return fmt.Sprintf("rate_limit:%s:%s", route, caller)
}

// RateLimitMiddleware is a fixed-window counter in Redis. Redis failures let
// the request through.
func RateLimitMiddleware(redisClient redis.Cmdable, limit int, window time.Duration, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := c.ClientIP()
		if userID, exists := c.Get("user_id"); exists {
			caller = fmt.Sprint(userID)
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := RateLimitKey(route, caller)

		ctx := c.Request.Context()
		count, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			log.Warn("[RATE LIMIT] counter unavailable for %s: %v", key, err)
			c.Next()
			return
		}

		if count == 1 {
			redisClient.Expire(ctx, key, window)
		}

		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}

		c.Next()
	}
}
