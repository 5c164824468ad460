package services

import (
	"github.com/temcen/prepforge/internal/config"
	"github.com/temcen/prepforge/internal/database"
	"github.com/temcen/prepforge/internal/messaging"

	"github.com/sirupsen/logrus"
)

type Services struct {
	Auth         *AuthService
	Health       *HealthService
	RateLimit    *RateLimitService
	EventBus     *messaging.PlanEventBus
	MemoCache    *MemoCache
	Catalog      *CachedCatalog
	Patterns     *PatternNormalizer
	Hotness      *HotnessCalculator
	Thresholds   *ThresholdPolicy
	Selector     *ProblemSelector
	Scheduler    *ScheduleGenerator
	PlanCache    *PlanCacheService
	Orchestrator *StudyPlanOrchestrator
}

func New(cfg *config.Config, logger *logrus.Logger, db *database.Database) (*Services, error) {
	authService := NewAuthService(cfg, logger, db.Redis.Hot)
	healthService := NewHealthService(cfg, logger, db)
	rateLimitService := NewRateLimitService(cfg, logger, db.Redis.Hot)

	eventBus := messaging.NewPlanEventBus(cfg, logger)

	// Catalog layer: Postgres repository behind an in-process memo cache
	memoCache := NewMemoCache(cfg.Planner.Caching.SweepInterval, logger)
	repository := NewCatalogRepository(db.PG)
	catalog := NewCachedCatalog(repository, memoCache, cfg.Planner.Caching.CatalogTTL, logger)

	// Scoring and selection
	contextAnalyzer := NewCompanyContextAnalyzer()
	patterns := NewPatternNormalizer(logger)
	hotness := NewHotnessCalculator(contextAnalyzer)
	thresholds := NewThresholdPolicy()
	selector := NewProblemSelector(catalog, hotness, patterns, thresholds, logger)

	// Scheduling and plan assembly
	scheduler := NewScheduleGenerator(logger)
	planCache := NewPlanCacheService(db.Redis.Warm, cfg.Planner.Caching.PlanTTL, logger)
	orchestrator := NewStudyPlanOrchestrator(
		catalog, selector, scheduler, planCache, eventBus, &cfg.Planner, logger,
	)

	return &Services{
		Auth:         authService,
		Health:       healthService,
		RateLimit:    rateLimitService,
		EventBus:     eventBus,
		MemoCache:    memoCache,
		Catalog:      catalog,
		Patterns:     patterns,
		Hotness:      hotness,
		Thresholds:   thresholds,
		Selector:     selector,
		Scheduler:    scheduler,
		PlanCache:    planCache,
		Orchestrator: orchestrator,
	}, nil
}

// Close releases background resources owned by the service container.
func (s *Services) Close() {
	s.MemoCache.Close()
	if err := s.EventBus.Close(); err != nil {
		// Writer flushes async batches on close; a failure here only
		// loses telemetry events.
		logrus.WithError(err).Warn("Failed to close plan event bus")
	}
}
