package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/temcen/prepforge/pkg/models"
)

// CachedCatalog fronts the repository with the in-process memo cache.
// Cached values are immutable snapshots shared across concurrent
// readers: callers must never mutate what they receive.
type CachedCatalog struct {
	repo   *CatalogRepository
	cache  *MemoCache
	ttl    time.Duration
	logger *logrus.Logger
}

func NewCachedCatalog(repo *CatalogRepository, cache *MemoCache, ttl time.Duration, logger *logrus.Logger) *CachedCatalog {
	return &CachedCatalog{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedCatalog) Problems(ctx context.Context) ([]models.Problem, error) {
	const key = "catalog:problems"

	if cached, ok := c.cache.Get(key); ok {
		return cached.([]models.Problem), nil
	}

	problems, err := c.repo.Problems(ctx)
	if err != nil {
		return nil, err
	}

	c.cache.Set(key, problems, c.ttl)
	return problems, nil
}

func (c *CachedCatalog) RoleScores(ctx context.Context) (map[string]*models.RoleScoreRecord, error) {
	const key = "catalog:role_scores"

	if cached, ok := c.cache.Get(key); ok {
		return cached.(map[string]*models.RoleScoreRecord), nil
	}

	records, err := c.repo.RoleScores(ctx)
	if err != nil {
		return nil, err
	}

	c.cache.Set(key, records, c.ttl)
	return records, nil
}

func (c *CachedCatalog) CompanyProfile(ctx context.Context, companyID string) (*models.CompanyProfile, error) {
	key := "catalog:company:" + companyID

	if cached, ok := c.cache.Get(key); ok {
		return cached.(*models.CompanyProfile), nil
	}

	profile, err := c.repo.CompanyProfile(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		// Unknown companies are not cached: a later backfill should be
		// visible immediately.
		return nil, nil
	}

	c.cache.Set(key, profile, c.ttl)
	return profile, nil
}

func (c *CachedCatalog) CompanyFrequency(ctx context.Context, companyID string) (*models.CompanyFrequency, error) {
	key := "catalog:frequency:" + companyID

	if cached, ok := c.cache.Get(key); ok {
		return cached.(*models.CompanyFrequency), nil
	}

	snapshot, err := c.repo.CompanyFrequency(ctx, companyID)
	if err != nil {
		return nil, err
	}

	c.cache.Set(key, snapshot, c.ttl)
	return snapshot, nil
}
