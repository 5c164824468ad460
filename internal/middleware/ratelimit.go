package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/prepforge/internal/services"
	"github.com/temcen/prepforge/pkg/models"
)

// RateLimiter is the slice of the rate limit service the middleware
// needs.
type RateLimiter interface {
	Allow(ctx context.Context, userID, tier string, action services.RateLimitAction) (bool, *models.RateLimitInfo, error)
}

// planAction classifies a request: generating a plan is the expensive
// operation, everything else on the API is a cheap read.
func planAction(method, path string) services.RateLimitAction {
	if method == http.MethodPost && strings.HasSuffix(path, "/study-plans") {
		return services.ActionGeneratePlan
	}
	return services.ActionReadCatalog
}

func RateLimit(limiter RateLimiter, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			// Auth middleware runs first on every limited route.
			logger.Error("Rate limit middleware called without user context")
			c.Next()
			return
		}

		userTier, exists := c.Get("user_tier")
		if !exists {
			userTier = "free"
		}

		var userIDStr string
		switch v := userID.(type) {
		case string:
			userIDStr = v
		case interface{ String() string }:
			userIDStr = v.String()
		default:
			userIDStr = "unknown"
		}

		action := planAction(c.Request.Method, c.FullPath())

		allowed, info, err := limiter.Allow(c.Request.Context(), userIDStr, userTier.(string), action)
		if err != nil {
			logger.WithError(err).Error("Failed to check rate limit")
			// Continue on error to avoid blocking requests when Redis is down
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime, 10))

		if !allowed {
			logger.WithFields(logrus.Fields{
				"user_id":   userIDStr,
				"user_tier": userTier,
				"action":    action,
				"limit":     info.Limit,
			}).Warn("Rate limit exceeded")

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "RATE_LIMIT_EXCEEDED",
					"message": "Rate limit exceeded. Please try again later.",
				},
				"rate_limit": info,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
