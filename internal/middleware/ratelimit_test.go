package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/prepforge/internal/services"
	"github.com/temcen/prepforge/pkg/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fakeLimiter struct {
	allowed    bool
	info       *models.RateLimitInfo
	err        error
	lastUser   string
	lastTier   string
	lastAction services.RateLimitAction
}

func (f *fakeLimiter) Allow(ctx context.Context, userID, tier string, action services.RateLimitAction) (bool, *models.RateLimitInfo, error) {
	f.lastUser = userID
	f.lastTier = tier
	f.lastAction = action
	return f.allowed, f.info, f.err
}

func newLimitedRouter(limiter RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Set("user_tier", "premium")
	})
	router.Use(RateLimit(limiter, testLogger()))
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }
	router.POST("/api/v1/study-plans", ok)
	router.GET("/api/v1/companies/:companyId", ok)
	return router
}

func TestRateLimit_PlanGenerationDrawsGenerateAction(t *testing.T) {
	limiter := &fakeLimiter{
		allowed: true,
		info:    &models.RateLimitInfo{Limit: 1000, Remaining: 994, ResetTime: 1700000000},
	}
	router := newLimitedRouter(limiter)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/v1/study-plans", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, services.ActionGeneratePlan, limiter.lastAction)
	assert.Equal(t, "user-1", limiter.lastUser)
	assert.Equal(t, "premium", limiter.lastTier)
	assert.Equal(t, "1000", recorder.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "994", recorder.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "1700000000", recorder.Header().Get("X-RateLimit-Reset"))
}

func TestRateLimit_CatalogReadsDrawReadAction(t *testing.T) {
	limiter := &fakeLimiter{
		allowed: true,
		info:    &models.RateLimitInfo{Limit: 1000, Remaining: 999},
	}
	router := newLimitedRouter(limiter)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/api/v1/companies/acme", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, services.ActionReadCatalog, limiter.lastAction)
}

func TestRateLimit_RejectsWhenWindowExhausted(t *testing.T) {
	limiter := &fakeLimiter{
		allowed: false,
		info:    &models.RateLimitInfo{Limit: 1000, Remaining: 0, ResetTime: 1700000000},
	}
	router := newLimitedRouter(limiter)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/v1/study-plans", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Equal(t, "0", recorder.Header().Get("X-RateLimit-Remaining"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	errObj, ok := body["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", errObj["code"])
	assert.Contains(t, body, "rate_limit")
}

func TestRateLimit_PermissiveOnLimiterError(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis unavailable")}
	router := newLimitedRouter(limiter)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/v1/study-plans", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestPlanAction(t *testing.T) {
	tests := []struct {
		method   string
		path     string
		expected services.RateLimitAction
	}{
		{http.MethodPost, "/api/v1/study-plans", services.ActionGeneratePlan},
		{http.MethodGet, "/api/v1/study-plans", services.ActionReadCatalog},
		{http.MethodGet, "/api/v1/companies/:companyId", services.ActionReadCatalog},
		{http.MethodGet, "/api/v1/taxonomy/patterns", services.ActionReadCatalog},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, planAction(tt.method, tt.path), "%s %s", tt.method, tt.path)
	}
}
