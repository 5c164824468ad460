package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Context keys handlers use to attribute a request to a plan.
const (
	logKeyCompany = "log_company_id"
	logKeyRole    = "log_role_family"
)

// AnnotatePlan records plan-request fields on the gin context so the
// access log can attribute latency and failures to a company and role
// family.
func AnnotatePlan(c *gin.Context, companyID, roleFamily string) {
	c.Set(logKeyCompany, companyID)
	c.Set(logKeyRole, roleFamily)
}

// RequestLogger emits one structured entry per request, enriched with
// the authenticated user and any plan annotation set by the handler.
// Probe endpoints log at debug so they do not drown request traffic.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := logrus.Fields{
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
			"method":     c.Request.Method,
			"path":       path,
		}
		if userID, ok := c.Get("user_id"); ok {
			fields["user_id"] = userID
		}
		if tier, ok := c.Get("user_tier"); ok {
			fields["user_tier"] = tier
		}
		if company, ok := c.Get(logKeyCompany); ok {
			fields["company_id"] = company
		}
		if role, ok := c.Get(logKeyRole); ok {
			fields["role_family"] = role
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		entry := logger.WithFields(fields)
		switch {
		case status >= 500:
			entry.Error("Request failed")
		case path == "/health" || path == "/metrics":
			entry.Debug("Request completed")
		default:
			entry.Info("Request completed")
		}
	}
}

func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		fields := logrus.Fields{
			"panic":     recovered,
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"client_ip": c.ClientIP(),
		}
		if userID, ok := c.Get("user_id"); ok {
			fields["user_id"] = userID
		}
		logger.WithFields(fields).Error("Panic recovered")

		c.JSON(500, gin.H{
			"error": gin.H{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": "Internal server error",
			},
		})
	})
}
