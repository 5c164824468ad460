package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/temcen/prepforge/internal/config"
	"github.com/temcen/prepforge/internal/messaging"
	"github.com/temcen/prepforge/pkg/models"
)

// Registered once at package level so tests can build orchestrators
// freely without duplicate collector registration.
var (
	plansGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prepforge_plans_generated_total",
		Help: "Generated study plans by fallback stage",
	}, []string{"stage"})
	planDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "prepforge_plan_generation_seconds",
		Help:    "Study plan generation latency",
		Buckets: prometheus.DefBuckets,
	})
	planCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prepforge_plan_cache_hits_total",
		Help: "Study plan cache hits",
	})
)

// StudyPlanOrchestrator sequences the full pipeline: validation, plan
// cache lookup, selection, scheduling, response assembly, and the
// fire-and-forget cache write and analytics event.
type StudyPlanOrchestrator struct {
	catalog   CatalogProvider
	selector  ProblemSelectorInterface
	scheduler *ScheduleGenerator
	planCache *PlanCacheService
	events    PlanEventPublisher
	config    *config.PlannerConfig
	logger    *logrus.Logger
}

func NewStudyPlanOrchestrator(
	catalog CatalogProvider,
	selector ProblemSelectorInterface,
	scheduler *ScheduleGenerator,
	planCache *PlanCacheService,
	events PlanEventPublisher,
	cfg *config.PlannerConfig,
	logger *logrus.Logger,
) *StudyPlanOrchestrator {
	return &StudyPlanOrchestrator{
		catalog:   catalog,
		selector:  selector,
		scheduler: scheduler,
		planCache: planCache,
		events:    events,
		config:    cfg,
		logger:    logger,
	}
}

// GeneratePlan produces a complete plan or fails; partial results are
// never surfaced.
func (o *StudyPlanOrchestrator) GeneratePlan(ctx context.Context, req *models.StudyPlanRequest) (*models.StudyPlanResponse, error) {
	startTime := time.Now()

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	signature := o.planCache.Signature(req)
	if cached, ok := o.planCache.Get(ctx, signature); ok {
		planCacheHits.Inc()
		o.logger.WithFields(logrus.Fields{
			"company_id": req.CompanyID,
			"role":       req.RoleFamily,
		}).Debug("Plan cache hit")
		return cached, nil
	}

	company, err := o.catalog.CompanyProfile(ctx, req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company %s: %w", req.CompanyID, err)
	}
	if company == nil {
		return nil, fmt.Errorf("%w: %s", ErrCompanyNotFound, req.CompanyID)
	}

	target, minimum := o.planCapacity(req)

	selection, err := o.selector.Select(ctx, ProblemSelectionConfig{
		CompanyID:        req.CompanyID,
		RoleFamily:       req.RoleFamily,
		TargetCount:      target,
		MinimumCount:     minimum,
		DifficultyFilter: parseDifficulties(req.Difficulty),
		TopicFocus:       req.TopicFocus,
		Blind75Only:      req.Blind75Only,
	})
	if err != nil {
		return nil, err
	}

	schedule := o.scheduler.Generate(selection.Problems, req.TimelineDays, req.HoursPerDay, time.Time{})

	response := o.assembleResponse(req, company, selection, schedule)

	// Fire-and-forget persistence and analytics: the caller never
	// blocks on either, failures are logged only.
	go o.persistPlan(signature, response)
	go o.publishEvent(req, response)

	duration := time.Since(startTime)
	planDuration.Observe(duration.Seconds())
	plansGenerated.WithLabelValues(selection.StageName).Inc()

	o.logger.WithFields(logrus.Fields{
		"company_id":  req.CompanyID,
		"role":        req.RoleFamily,
		"problems":    response.TotalProblems,
		"days":        len(response.Days),
		"stage":       selection.StageName,
		"duration_ms": duration.Milliseconds(),
	}).Info("Study plan generated")

	return response, nil
}

// validateRequest rejects malformed requests before any data load.
func validateRequest(req *models.StudyPlanRequest) error {
	if req.CompanyID == "" {
		return validationErrorf("company_id is required")
	}
	if !req.RoleFamily.Valid() {
		return validationErrorf(fmt.Sprintf("unknown role family %q", req.RoleFamily))
	}
	if req.TimelineDays < 1 || req.TimelineDays > 90 {
		return validationErrorf("timeline_days must be between 1 and 90")
	}
	if req.HoursPerDay < 0.5 || req.HoursPerDay > 8 {
		return validationErrorf("hours_per_day must be between 0.5 and 8")
	}
	if req.Difficulty != nil && len(req.Difficulty) == 0 {
		return validationErrorf("difficulty filter must select at least one level")
	}
	for _, d := range req.Difficulty {
		switch models.Difficulty(d) {
		case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
		default:
			return validationErrorf(fmt.Sprintf("unknown difficulty %q", d))
		}
	}
	if len(req.TopicFocus) > 5 {
		return validationErrorf("topic_focus supports at most 5 entries")
	}
	return nil
}

// planCapacity derives the selection target from the calendar budget:
// available minutes over the configured per-problem average, clamped to
// the configured bounds.
func (o *StudyPlanOrchestrator) planCapacity(req *models.StudyPlanRequest) (target, minimum int) {
	availableMinutes := float64(req.TimelineDays) * req.HoursPerDay * 60
	target = int(availableMinutes / float64(o.config.TargetProblemMinutes))

	if target > o.config.MaxProblems {
		target = o.config.MaxProblems
	}
	if target < 1 {
		target = 1
	}

	minimum = o.config.MinimumProblems
	if minimum > target {
		minimum = target
	}
	return target, minimum
}

func parseDifficulties(raw []string) []models.Difficulty {
	if len(raw) == 0 {
		return nil
	}
	difficulties := make([]models.Difficulty, 0, len(raw))
	for _, d := range raw {
		difficulties = append(difficulties, models.Difficulty(d))
	}
	return difficulties
}

func (o *StudyPlanOrchestrator) assembleResponse(
	req *models.StudyPlanRequest,
	company *models.CompanyProfile,
	selection *SelectionResult,
	schedule *ScheduleResult,
) *models.StudyPlanResponse {
	totalProblems := 0
	totalMinutes := 0
	actuallyAsked := 0
	hotnessSum := 0.0

	for _, day := range schedule.Days {
		totalProblems += len(day.Problems)
		for _, problem := range day.Problems {
			totalMinutes += problem.EstimatedMinutes
			hotnessSum += problem.Hotness.Score
			if problem.Hotness.ActuallyAsked {
				actuallyAsked++
			}
		}
	}

	averageHotness := 0.0
	if totalProblems > 0 {
		averageHotness = math.Round(hotnessSum/float64(totalProblems)*100) / 100
	}

	return &models.StudyPlanResponse{
		CompanyID:      company.ID,
		CompanyName:    company.Name,
		RoleFamily:     req.RoleFamily,
		TotalProblems:  totalProblems,
		EstimatedHours: math.Round(float64(totalMinutes)/60*100) / 100,
		Days:           schedule.Days,
		Quality: models.PlanQuality{
			FallbackStage:     selection.Stage,
			StageName:         selection.StageName,
			Relaxations:       selection.Relaxations,
			Scope:             string(selection.Scope),
			ActuallyAsked:     actuallyAsked,
			Extrapolated:      totalProblems - actuallyAsked,
			GhostReferences:   selection.GhostReferences,
			AverageHotness:    averageHotness,
			DroppedBySchedule: schedule.Dropped + schedule.Pruned,
		},
		GeneratedAt: time.Now(),
		CacheHit:    false,
	}
}

func (o *StudyPlanOrchestrator) persistPlan(signature string, response *models.StudyPlanResponse) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := o.planCache.Put(ctx, signature, response); err != nil {
		o.logger.WithError(err).Warn("Failed to persist plan to cache")
	}
}

func (o *StudyPlanOrchestrator) publishEvent(req *models.StudyPlanRequest, response *models.StudyPlanResponse) {
	if o.events == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event := &messaging.PlanEvent{
		EventID:       uuid.New(),
		CompanyID:     req.CompanyID,
		RoleFamily:    req.RoleFamily,
		TimelineDays:  req.TimelineDays,
		TotalProblems: response.TotalProblems,
		FallbackStage: response.Quality.FallbackStage,
		CacheHit:      false,
		GeneratedAt:   response.GeneratedAt,
	}

	if err := o.events.PublishPlanGenerated(ctx, event); err != nil {
		o.logger.WithError(err).Warn("Failed to publish plan event")
	}
}
