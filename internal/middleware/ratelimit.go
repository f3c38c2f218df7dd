package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/projecthub/api/internal/pkg/response"
)

const rateLimitPrefix = "projecthub:rate_limit:"

// Counter is a fixed-window hit counter.
type Counter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit enforces max requests per client IP per fixed window. A nil counter disables it.
// Counter failures let the request through.
func RateLimit(counter Counter, window time.Duration, max int, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if counter == nil || max <= 0 {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		count, err := counter.Hit(c.Request.Context(), rateLimitPrefix+ip, window)
		if err != nil {
			if log != nil {
				log.Warn("rate limit counter unavailable", zap.Error(err))
			}
			c.Next()
			return
		}

		remaining := int64(max) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(max) {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			response.TooManyRequests(c)
			return
		}

		c.Next()
	}
}
