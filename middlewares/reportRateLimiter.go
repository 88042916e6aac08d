package middlewares

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"smartroad-be/apperrors"
	"smartroad-be/observability"
	"smartroad-be/response"
)

// RateCounter is the part of the Redis client the limiter needs.
type RateCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
	Decr(ctx context.Context, key string) *redis.IntCmd
}

const reportLimitWindow = 24 * time.Hour

// ReportRateLimiter caps how many reports one user can submit per day.
// Submissions the handler rejects with a 4xx are refunded. A nil counter
// disables the limit.
func ReportRateLimiter(counter RateCounter, queuePrefix string, limit int, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if counter == nil {
			c.Next()
			return
		}

		userID := c.GetString(ContextUserID)
		if userID == "" {
			response.Error(c, apperrors.Unauthorized("User not authenticated", nil))
			return
		}

		ctx := c.Request.Context()

		// Create individual key for each user
		userKey := queuePrefix + ":" + userID

		// Increment user's count with TTL
		count, err := counter.Incr(ctx, userKey).Result()
		if err != nil {
			response.Error(c, apperrors.Unavailable("Rate limiter unavailable", err))
			return
		}

		// Set TTL only for the first increment (when count = 1)
		if count == 1 {
			if err := counter.Expire(ctx, userKey, reportLimitWindow).Err(); err != nil {
				response.Error(c, apperrors.Unavailable("Rate limiter unavailable", err))
				return
			}
		}

		// Check if user exceeded limit
		if count > int64(limit) {
			retryAfter, _ := counter.TTL(ctx, userKey).Result()
			metrics.RateLimited.Inc()
			slog.Info("report rate limit exceeded", "user_id", userID, "count", count)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"code":        "RATE_LIMITED",
				"retry_after": retryAfter.Seconds(),
			})
			return
		}

		c.Next()

		if status := c.Writer.Status(); status >= http.StatusBadRequest && status < http.StatusInternalServerError {
			if err := counter.Decr(ctx, userKey).Err(); err != nil {
				slog.Warn("report rate limit refund failed", "user_id", userID, "error", err)
			}
		}
	}
}
