package services

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/temcen/prepforge/pkg/models"
)

// PlanCacheService is the durable plan-result cache on the warm Redis
// tier. Reads degrade to cache misses on any failure; writes are
// fire-and-forget and logged only.
type PlanCacheService struct {
	redisClient *redis.Client
	ttl         time.Duration
	logger      *logrus.Logger
}

func NewPlanCacheService(redisClient *redis.Client, ttl time.Duration, logger *logrus.Logger) *PlanCacheService {
	return &PlanCacheService{
		redisClient: redisClient,
		ttl:         ttl,
		logger:      logger,
	}
}

// Signature derives the deterministic cache key for a request. Optional
// filters are sorted so equivalent requests collide; defaults are
// omitted so adding a field later does not invalidate existing entries.
func (s *PlanCacheService) Signature(req *models.StudyPlanRequest) string {
	parts := []string{
		req.CompanyID,
		string(req.RoleFamily),
		fmt.Sprintf("%d", req.TimelineDays),
		fmt.Sprintf("%.2f", req.HoursPerDay),
	}

	if len(req.Difficulty) > 0 {
		difficulty := make([]string, len(req.Difficulty))
		copy(difficulty, req.Difficulty)
		sort.Strings(difficulty)
		parts = append(parts, "diff="+strings.Join(difficulty, ","))
	}
	if len(req.TopicFocus) > 0 {
		topics := make([]string, len(req.TopicFocus))
		for i, topic := range req.TopicFocus {
			topics[i] = lowered(topic)
		}
		sort.Strings(topics)
		parts = append(parts, "topics="+strings.Join(topics, ","))
	}
	if req.Blind75Only {
		parts = append(parts, "blind75")
	}

	return fmt.Sprintf("%x", md5.Sum([]byte(strings.Join(parts, "|"))))
}

// Get returns the cached plan for a signature, or (nil, false) on miss
// or any cache failure. Hits bump the entry's counter in place.
func (s *PlanCacheService) Get(ctx context.Context, signature string) (*models.StudyPlanResponse, bool) {
	if s.redisClient == nil {
		return nil, false
	}

	raw, err := s.redisClient.Get(ctx, s.key(signature)).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.WithError(err).Warn("Plan cache read failed, treating as miss")
		}
		return nil, false
	}

	var cached models.CachedStudyPlan
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		s.logger.WithError(err).Warn("Corrupt plan cache entry, treating as miss")
		return nil, false
	}

	if time.Now().After(cached.ExpiresAt) {
		return nil, false
	}

	cached.Hits++
	if data, err := json.Marshal(cached); err == nil {
		if err := s.redisClient.Set(ctx, s.key(signature), data, redis.KeepTTL).Err(); err != nil {
			s.logger.WithError(err).Debug("Failed to bump plan cache hit counter")
		}
	}

	response := cached.Response
	response.CacheHit = true
	return &response, true
}

// Put stores a plan under its signature with the configured TTL.
func (s *PlanCacheService) Put(ctx context.Context, signature string, response *models.StudyPlanResponse) error {
	if s.redisClient == nil {
		return nil
	}

	now := time.Now()
	cached := models.CachedStudyPlan{
		Signature: signature,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
		Hits:      0,
		Response:  *response,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("failed to marshal cached plan: %w", err)
	}

	if err := s.redisClient.Set(ctx, s.key(signature), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write plan cache: %w", err)
	}

	return nil
}

func (s *PlanCacheService) key(signature string) string {
	return "studyplan:" + signature
}
