package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/temcen/prepforge/pkg/models"
)

// SelectionScope determines which part of the catalog a fallback stage
// may draw from.
type SelectionScope string

const (
	ScopeCompany     SelectionScope = "company"
	ScopeAllProblems SelectionScope = "all_problems"
)

// thresholdMode is how a fallback stage resolves its role-score cutoff.
type thresholdMode int

const (
	thresholdAdaptive thresholdMode = iota
	thresholdAcceptable
	thresholdMinimum
	thresholdNone
)

// fallbackStage is one rung of the progressive-relaxation ladder. The
// ladder is data: each stage is independently testable and the loop in
// Select never changes when stages do.
type fallbackStage struct {
	Name             string
	TargetRatio      float64
	Scope            SelectionScope
	Threshold        thresholdMode
	RelaxUserFilters bool
}

// fallbackLadder runs strict to loose. The first stage that meets its
// own effective target short-circuits.
var fallbackLadder = []fallbackStage{
	{Name: "strict", TargetRatio: 1.0, Scope: ScopeCompany, Threshold: thresholdAdaptive},
	{Name: "relaxed_filters", TargetRatio: 0.8, Scope: ScopeCompany, Threshold: thresholdAcceptable, RelaxUserFilters: true},
	{Name: "minimum_threshold", TargetRatio: 0.6, Scope: ScopeCompany, Threshold: thresholdMinimum, RelaxUserFilters: true},
	{Name: "emergency_half", TargetRatio: 0.5, Scope: ScopeCompany, Threshold: thresholdMinimum, RelaxUserFilters: true},
	{Name: "emergency_third", TargetRatio: 0.3, Scope: ScopeCompany, Threshold: thresholdMinimum, RelaxUserFilters: true},
	{Name: "no_threshold", TargetRatio: 0.3, Scope: ScopeCompany, Threshold: thresholdNone, RelaxUserFilters: true},
	{Name: "all_problems", TargetRatio: 0.3, Scope: ScopeAllProblems, Threshold: thresholdMinimum, RelaxUserFilters: true},
	{Name: "last_resort", TargetRatio: 0.3, Scope: ScopeAllProblems, Threshold: thresholdNone, RelaxUserFilters: true},
}

const maxDiversityBonus = 50.0

// ProblemSelectionConfig drives one selection run.
type ProblemSelectionConfig struct {
	CompanyID        string
	RoleFamily       models.RoleFamily
	TargetCount      int
	MinimumCount     int
	DifficultyFilter []models.Difficulty
	TopicFocus       []string
	MinHotnessScore  float64
	MinRoleScore     float64
	Blind75Only      bool
}

// SelectionResult carries the chosen problems plus metadata about which
// fallback stage supplied them.
type SelectionResult struct {
	Problems        []models.EnrichedProblem
	Stage           int
	StageName       string
	Relaxations     []string
	Scope           SelectionScope
	GhostReferences int
}

// ProblemSelector filters, scores, ranks, and greedily picks a diverse
// problem subset, retrying through the fallback ladder until a stage
// can satisfy its own target.
type ProblemSelector struct {
	catalog    CatalogProvider
	hotness    *HotnessCalculator
	patterns   *PatternNormalizer
	thresholds *ThresholdPolicy
	logger     *logrus.Logger
}

func NewProblemSelector(
	catalog CatalogProvider,
	hotness *HotnessCalculator,
	patterns *PatternNormalizer,
	thresholds *ThresholdPolicy,
	logger *logrus.Logger,
) *ProblemSelector {
	return &ProblemSelector{
		catalog:    catalog,
		hotness:    hotness,
		patterns:   patterns,
		thresholds: thresholds,
		logger:     logger,
	}
}

// Select runs the fallback ladder over a single catalog snapshot.
// Exhausting all stages without satisfying any is fatal.
func (s *ProblemSelector) Select(ctx context.Context, cfg ProblemSelectionConfig) (*SelectionResult, error) {
	snapshot, err := s.loadSnapshot(ctx, cfg.CompanyID)
	if err != nil {
		return nil, err
	}

	s.logCalibration(cfg.RoleFamily, snapshot)

	for i, stage := range fallbackLadder {
		effectiveTarget := effectiveTarget(cfg.TargetCount, cfg.MinimumCount, stage.TargetRatio)

		selected := s.attempt(stage, effectiveTarget, cfg, snapshot)
		if len(selected) >= effectiveTarget {
			s.logger.WithFields(logrus.Fields{
				"company_id": cfg.CompanyID,
				"role":       cfg.RoleFamily,
				"stage":      stage.Name,
				"selected":   len(selected),
				"target":     effectiveTarget,
			}).Info("Problem selection satisfied")

			return &SelectionResult{
				Problems:        selected,
				Stage:           i + 1,
				StageName:       stage.Name,
				Relaxations:     stageRelaxations(stage),
				Scope:           stage.Scope,
				GhostReferences: snapshot.ghostReferences,
			}, nil
		}

		s.logger.WithFields(logrus.Fields{
			"company_id": cfg.CompanyID,
			"role":       cfg.RoleFamily,
			"stage":      stage.Name,
			"selected":   len(selected),
			"target":     effectiveTarget,
		}).Debug("Fallback stage under-supplied, relaxing")
	}

	return nil, fmt.Errorf(
		"%w: all fallback stages exhausted for company %s role %s: catalog cannot supply %d problems",
		ErrSelectionExhausted, cfg.CompanyID, cfg.RoleFamily, cfg.MinimumCount,
	)
}

// effectiveTarget applies the stage ratio but never violates the
// minimum floor.
func effectiveTarget(target, minimum int, ratio float64) int {
	scaled := int(math.Ceil(float64(target) * ratio))
	if scaled < minimum {
		return minimum
	}
	return scaled
}

func stageRelaxations(stage fallbackStage) []string {
	var relaxations []string
	if stage.RelaxUserFilters {
		relaxations = append(relaxations, "topic_difficulty_filters")
	}
	switch stage.Threshold {
	case thresholdAcceptable:
		relaxations = append(relaxations, "threshold_acceptable")
	case thresholdMinimum:
		relaxations = append(relaxations, "threshold_minimum")
	case thresholdNone:
		relaxations = append(relaxations, "threshold_removed")
	}
	if stage.Scope == ScopeAllProblems {
		relaxations = append(relaxations, "all_problems_scope")
	}
	return relaxations
}

// catalogSnapshot is the request-scoped, referentially consistent view
// of the collections one selection run works against.
type catalogSnapshot struct {
	problems        []models.Problem
	roleScores      map[string]*models.RoleScoreRecord
	knownIDs        map[string]bool
	company         *models.CompanyProfile
	frequencies     map[string]*models.FrequencyEntry
	buckets         map[string][]models.RecencyBucket
	ghostReferences int
}

func (s *ProblemSelector) loadSnapshot(ctx context.Context, companyID string) (*catalogSnapshot, error) {
	problems, err := s.catalog.Problems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load problem catalog: %w", err)
	}

	roleScores, err := s.catalog.RoleScores(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load role scores: %w", err)
	}

	company, err := s.catalog.CompanyProfile(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company profile: %w", err)
	}

	frequency, err := s.catalog.CompanyFrequency(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company frequency data: %w", err)
	}

	snapshot := &catalogSnapshot{
		problems:    problems,
		roleScores:  roleScores,
		company:     company,
		frequencies: make(map[string]*models.FrequencyEntry),
		buckets:     make(map[string][]models.RecencyBucket),
	}

	known := make(map[string]bool, len(problems))
	for _, problem := range problems {
		known[problem.ID] = true
	}
	snapshot.knownIDs = known

	// Ghost frequency entries reference ids absent from the catalog.
	// They are filtered and counted, never errored.
	if frequency != nil {
		for bucket, entries := range frequency.Buckets {
			for i := range entries {
				entry := entries[i]
				if !known[entry.ProblemID] {
					snapshot.ghostReferences++
					continue
				}
				snapshot.buckets[entry.ProblemID] = append(snapshot.buckets[entry.ProblemID], bucket)
				if existing, ok := snapshot.frequencies[entry.ProblemID]; !ok || entry.Frequency > existing.Frequency {
					snapshot.frequencies[entry.ProblemID] = &entry
				}
			}
		}
	}

	if snapshot.ghostReferences > 0 {
		s.logger.WithFields(logrus.Fields{
			"company_id": companyID,
			"ghosts":     snapshot.ghostReferences,
		}).Warn("Filtered ghost frequency references")
	}

	return snapshot, nil
}

// logCalibration compares the live role-score distribution against the
// static tier table. Drift between the two shows up in the logs before
// it starves selection, and feeds the next table refresh.
func (s *ProblemSelector) logCalibration(role models.RoleFamily, snapshot *catalogSnapshot) {
	if !s.logger.IsLevelEnabled(logrus.DebugLevel) {
		return
	}

	scores := make([]float64, 0, len(snapshot.roleScores))
	for id, record := range snapshot.roleScores {
		if !snapshot.knownIDs[id] {
			continue
		}
		if score, ok := record.Scores[role]; ok {
			scores = append(scores, score)
		}
	}

	calibrated, err := CalibrateThresholds(scores)
	if err != nil {
		return
	}

	static := s.thresholds.Thresholds(role)
	s.logger.WithFields(logrus.Fields{
		"role":                  role,
		"scored_problems":       len(scores),
		"calibrated_preferred":  calibrated.Preferred,
		"calibrated_acceptable": calibrated.Acceptable,
		"calibrated_minimum":    calibrated.Minimum,
		"static_preferred":      static.Preferred,
		"static_acceptable":     static.Acceptable,
		"static_minimum":        static.Minimum,
	}).Debug("Role score distribution calibration")
}

// attempt runs one ladder stage: threshold pre-filter, scoring,
// enrichment, scope and user filters, ranking, greedy pick.
func (s *ProblemSelector) attempt(
	stage fallbackStage,
	effectiveTarget int,
	cfg ProblemSelectionConfig,
	snapshot *catalogSnapshot,
) []models.EnrichedProblem {
	cutoff := s.stageCutoff(stage, effectiveTarget, cfg.RoleFamily, snapshot)

	pool := make([]models.EnrichedProblem, 0, len(snapshot.problems))
	for i := range snapshot.problems {
		problem := &snapshot.problems[i]
		record := snapshot.roleScores[problem.ID]

		roleScore := neutralRoleRelevance * 100
		if record != nil {
			if score, ok := record.Scores[cfg.RoleFamily]; ok {
				roleScore = score
			}
		}

		// Threshold pre-filter: exclusion, not down-ranking. The
		// caller's role-score floor holds through every stage, same
		// as the hotness floor.
		if stage.Threshold != thresholdNone && roleScore < cutoff {
			continue
		}
		if cfg.MinRoleScore > 0 && roleScore < cfg.MinRoleScore {
			continue
		}

		frequency := snapshot.frequencies[problem.ID]
		buckets := snapshot.buckets[problem.ID]
		hotness := s.hotness.Calculate(problem, record, cfg.RoleFamily, snapshot.company, frequency, buckets)

		// Company scope keeps only problems actually asked or with
		// nonzero hotness; all-problems scope keeps everything.
		if stage.Scope == ScopeCompany && !hotness.ActuallyAsked && hotness.Score <= 0 {
			continue
		}

		pool = append(pool, models.EnrichedProblem{
			Problem:          *problem,
			Hotness:          hotness,
			Frequency:        frequency,
			Buckets:          buckets,
			RoleScore:        roleScore,
			Topics:           s.enrichTopics(record),
			EstimatedMinutes: estimateTimeMinutes(problem.ID, problem.Difficulty),
		})
	}

	pool = s.applyUserFilters(pool, stage, cfg)

	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].Hotness.Score != pool[j].Hotness.Score {
			return pool[i].Hotness.Score > pool[j].Hotness.Score
		}
		return pool[i].ID < pool[j].ID
	})

	// Diversity optimization is skipped entirely under an explicit
	// topic focus: the caller already narrowed the topic space.
	if len(cfg.TopicFocus) > 0 {
		if len(pool) > effectiveTarget {
			pool = pool[:effectiveTarget]
		}
		return pool
	}

	return s.selectDiverse(pool, effectiveTarget)
}

func (s *ProblemSelector) stageCutoff(
	stage fallbackStage,
	effectiveTarget int,
	role models.RoleFamily,
	snapshot *catalogSnapshot,
) float64 {
	thresholds := s.thresholds.Thresholds(role)

	switch stage.Threshold {
	case thresholdAdaptive:
		// Count only supply the catalog can actually deliver; ghost
		// role-score rows would otherwise inflate availability and
		// pin the cutoff at the preferred tier.
		available := 0
		for id, record := range snapshot.roleScores {
			if !snapshot.knownIDs[id] {
				continue
			}
			if score, ok := record.Scores[role]; ok && score >= thresholds.Preferred {
				available++
			}
		}
		return s.thresholds.AdaptiveThreshold(role, available, effectiveTarget)
	case thresholdAcceptable:
		return thresholds.Acceptable
	case thresholdMinimum:
		return thresholds.Minimum
	default:
		return 0
	}
}

// enrichTopics merges canonicalized patterns with literal
// data-structure tags.
func (s *ProblemSelector) enrichTopics(record *models.RoleScoreRecord) []string {
	if record == nil {
		return nil
	}

	topics := s.patterns.NormalizeAll(record.Patterns)
	seen := make(map[string]bool, len(topics))
	for _, topic := range topics {
		seen[topic] = true
	}
	for _, ds := range record.DataStructures {
		trimmed := strings.TrimSpace(ds)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		topics = append(topics, trimmed)
	}
	return topics
}

func (s *ProblemSelector) applyUserFilters(
	pool []models.EnrichedProblem,
	stage fallbackStage,
	cfg ProblemSelectionConfig,
) []models.EnrichedProblem {
	filtered := pool[:0]
	for _, candidate := range pool {
		if cfg.Blind75Only && !candidate.Blind75 {
			continue
		}
		if cfg.MinHotnessScore > 0 && candidate.Hotness.Score < cfg.MinHotnessScore {
			continue
		}
		if !stage.RelaxUserFilters {
			if len(cfg.DifficultyFilter) > 0 && !difficultyAllowed(candidate.Difficulty, cfg.DifficultyFilter) {
				continue
			}
			if len(cfg.TopicFocus) > 0 && !topicFocusMatch(candidate.Topics, cfg.TopicFocus) {
				continue
			}
		}
		filtered = append(filtered, candidate)
	}
	return filtered
}

func difficultyAllowed(difficulty models.Difficulty, allowed []models.Difficulty) bool {
	for _, d := range allowed {
		if d == difficulty {
			return true
		}
	}
	return false
}

func topicFocusMatch(topics []string, focus []string) bool {
	for _, topic := range topics {
		topicLower := strings.ToLower(topic)
		for _, f := range focus {
			if substringMatch(topicLower, lowered(f)) {
				return true
			}
		}
	}
	return false
}

// selectDiverse greedily picks candidates maximizing hotness plus a
// coverage bonus of 5 points per not-yet-covered tag, capped at 50.
func (s *ProblemSelector) selectDiverse(pool []models.EnrichedProblem, target int) []models.EnrichedProblem {
	if len(pool) <= target {
		return pool
	}

	selected := make([]models.EnrichedProblem, 0, target)
	covered := make(map[string]bool)
	remaining := make([]models.EnrichedProblem, len(pool))
	copy(remaining, pool)

	for len(selected) < target && len(remaining) > 0 {
		bestIdx := 0
		bestScore := -1.0

		for i, candidate := range remaining {
			adjusted := candidate.Hotness.Score + diversityBonus(candidate.Topics, covered)
			if adjusted > bestScore {
				bestScore = adjusted
				bestIdx = i
			}
		}

		picked := remaining[bestIdx]
		for _, topic := range picked.Topics {
			covered[topic] = true
		}
		selected = append(selected, picked)
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return selected
}

func diversityBonus(topics []string, covered map[string]bool) float64 {
	uncovered := 0
	for _, topic := range topics {
		if !covered[topic] {
			uncovered++
		}
	}
	bonus := 5.0 * float64(uncovered)
	if bonus > maxDiversityBonus {
		return maxDiversityBonus
	}
	return bonus
}

// Deterministic per-difficulty time estimates: base plus a stable
// id-hashed offset within the variance band. Same id, same estimate.
func estimateTimeMinutes(id string, difficulty models.Difficulty) int {
	base, variance := 35, 8
	switch difficulty {
	case models.DifficultyEasy:
		base, variance = 20, 5
	case models.DifficultyHard:
		base, variance = 60, 15
	}

	h := fnv.New32a()
	h.Write([]byte(id))
	offset := int(h.Sum32()%uint32(2*variance+1)) - variance

	return base + offset
}
