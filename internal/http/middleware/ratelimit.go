package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	redisclient "github.com/yungbote/coursehub-backend/internal/clients/redis"
	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type RateLimiter interface {
	Allow(ctx context.Context, bucket, client string) (redisclient.RateDecision, error)
}

// RateLimit throttles by client IP under bucket. Limiter failures let the request through.
func RateLimit(log *logger.Logger, limiter RateLimiter, metrics *observability.Metrics, bucket string) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		d, err := limiter.Allow(c.Request.Context(), bucket, c.ClientIP())
		if err != nil {
			if log != nil {
				log.Warn("Rate limiter unavailable", "bucket", bucket, "error", err)
			}
			c.Next()
			return
		}
		if !d.Allowed {
			metrics.IncRateLimited(bucket)
			secs := int(math.Ceil(d.RetryAfter.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			abort(c, http.StatusTooManyRequests, "rate_limited", "too many requests, try again later")
			return
		}
		c.Next()
	}
}
