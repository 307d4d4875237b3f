package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskforge/api/internal/metrics"
	"github.com/taskforge/api/internal/ratelimit"
)

const rateLimitedMessage = "Too many requests. Please try again later."

// ClientIP prefers the first X-Forwarded-For entry, then X-Real-IP.
// Requests carrying neither share the "unknown" bucket.
func ClientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	if real := c.GetHeader("X-Real-IP"); real != "" {
		return strings.TrimSpace(real)
	}
	return "unknown"
}

// RateLimit rejects requests exceeding the limiter's window with a 429 and
// a Retry-After header. A limiter backend failure fails open: an outage of
// the rate limiter must not take the API down with it.
func RateLimit(limiter ratelimit.Limiter, bucket string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := limiter.Allow(c.Request.Context(), ClientIP(c))
		if err != nil {
			logger.ErrorContext(c.Request.Context(), "rate limit check",
				"bucket", bucket, "error", err)
			c.Next()
			return
		}

		if !res.Allowed {
			metrics.RateLimitRejectionsTotal.WithLabelValues(bucket).Inc()

			retryAfter := int(math.Ceil(time.Until(res.Reset).Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"message": rateLimitedMessage,
					"reset":   res.Reset.UTC().Format(time.RFC3339),
				},
			})
			return
		}

		c.Next()
	}
}
