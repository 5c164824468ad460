package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/temcen/prepforge/internal/config"
	"github.com/temcen/prepforge/pkg/models"
)

// RateLimitAction classifies a request for rate limiting. All actions
// share one window per user, but plan generation runs the full
// selection and scheduling pipeline while catalog and taxonomy reads
// are cache hits, so generation draws a higher cost from the window.
type RateLimitAction string

const (
	ActionGeneratePlan RateLimitAction = "generate_plan"
	ActionReadCatalog  RateLimitAction = "read_catalog"
)

const generatePlanCost = 5

func actionCost(action RateLimitAction) int {
	if action == ActionGeneratePlan {
		return generatePlanCost
	}
	return 1
}

// RateLimitService charges requests against per-user sliding windows
// kept as Redis sorted sets. Redis failures are permissive: a degraded
// limiter must not take plan generation down with it.
type RateLimitService struct {
	limits config.RateLimitConfig
	logger *logrus.Logger
	redis  *redis.Client
}

func NewRateLimitService(cfg *config.Config, logger *logrus.Logger, redisClient *redis.Client) *RateLimitService {
	return &RateLimitService{
		limits: cfg.Auth.RateLimit,
		logger: logger,
		redis:  redisClient,
	}
}

// Allow charges the action's cost against the user's window and reports
// whether it fit, along with the window state for response headers.
func (s *RateLimitService) Allow(ctx context.Context, userID, tier string, action RateLimitAction) (bool, *models.RateLimitInfo, error) {
	limit := s.tierLimit(tier)
	cost := actionCost(action)
	window := s.limits.Window

	key := "ratelimit:planner:" + userID
	now := time.Now()
	cutoff := strconv.FormatInt(now.Add(-window).UnixMilli(), 10)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipe := s.redis.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", cutoff)
	usedCmd := pipe.ZCard(ctx, key)

	// One member per cost unit keeps ZCard the single source of truth
	// for window usage.
	members := make([]redis.Z, cost)
	for i := range members {
		members[i] = redis.Z{
			Score:  float64(now.UnixMilli()),
			Member: fmt.Sprintf("%d:%s:%d", now.UnixNano(), action, i),
		}
	}
	pipe.ZAdd(ctx, key, members...)
	pipe.Expire(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"action":  action,
		}).Error("Rate limit pipeline failed, allowing request")
		allowed, remaining := windowDecision(limit, 0, cost)
		return allowed, s.info(limit, remaining, now, window), nil
	}

	allowed, remaining := windowDecision(limit, int(usedCmd.Val()), cost)
	return allowed, s.info(limit, remaining, now, window), nil
}

// windowDecision is the charge arithmetic: the action is allowed when
// the full cost fits on top of what the window already holds.
func windowDecision(limit, used, cost int) (allowed bool, remaining int) {
	spent := used + cost
	remaining = limit - spent
	if remaining < 0 {
		remaining = 0
	}
	return spent <= limit, remaining
}

func (s *RateLimitService) info(limit, remaining int, now time.Time, window time.Duration) *models.RateLimitInfo {
	return &models.RateLimitInfo{
		Limit:     limit,
		Remaining: remaining,
		ResetTime: now.Add(window).Unix(),
	}
}

func (s *RateLimitService) tierLimit(tier string) int {
	if tier == "premium" {
		return s.limits.Premium
	}
	return s.limits.Default
}
