package services

import (
	"math"

	"github.com/temcen/prepforge/pkg/models"
)

// Component weights for the composite hotness score. They must sum to
// 1.0; guarded by a test.
const (
	hotnessWeightFrequency      = 0.35
	hotnessWeightRecency        = 0.25
	hotnessWeightRoleRelevance  = 0.25
	hotnessWeightCompanyContext = 0.15

	// Extrapolation defaults for problems without company frequency
	// data. Applied uniformly regardless of company or role.
	defaultFrequencyComponent = 0.3
	defaultRecencyComponent   = 0.3
	neutralRoleRelevance      = 0.5
)

// recencyMultipliers weight how recently a company is known to have
// asked a problem. The best bucket a problem occupies wins.
var recencyMultipliers = map[models.RecencyBucket]float64{
	models.BucketLast30Days:   1.0,
	models.BucketLast3Months:  0.7,
	models.BucketLast6Months:  0.4,
	models.BucketOlder6Months: 0.2,
	models.BucketAllTime:      0.5,
}

// HotnessCalculator produces the 0-100 composite priority for a
// (problem, company, role) triple. It never fails: every missing input
// is substituted with a default so the candidate pool stays rankable
// even under sparse company data.
type HotnessCalculator struct {
	contextAnalyzer *CompanyContextAnalyzer
}

func NewHotnessCalculator(contextAnalyzer *CompanyContextAnalyzer) *HotnessCalculator {
	return &HotnessCalculator{
		contextAnalyzer: contextAnalyzer,
	}
}

// Calculate scores one problem. record, company, frequency, and buckets
// may all be nil/empty.
func (hc *HotnessCalculator) Calculate(
	problem *models.Problem,
	record *models.RoleScoreRecord,
	role models.RoleFamily,
	company *models.CompanyProfile,
	frequency *models.FrequencyEntry,
	buckets []models.RecencyBucket,
) models.HotnessResult {
	breakdown := models.HotnessBreakdown{
		Frequency:      hc.frequencyComponent(frequency),
		Recency:        hc.recencyComponent(buckets),
		RoleRelevance:  hc.roleRelevanceComponent(record, role),
		CompanyContext: hc.contextAnalyzer.Score(problem, record, company),
	}

	weighted := hotnessWeightFrequency*breakdown.Frequency +
		hotnessWeightRecency*breakdown.Recency +
		hotnessWeightRoleRelevance*breakdown.RoleRelevance +
		hotnessWeightCompanyContext*breakdown.CompanyContext

	return models.HotnessResult{
		Score:         math.Round(100 * weighted),
		Breakdown:     breakdown,
		ActuallyAsked: frequency != nil,
	}
}

func (hc *HotnessCalculator) frequencyComponent(frequency *models.FrequencyEntry) float64 {
	if frequency == nil {
		return defaultFrequencyComponent
	}
	return frequency.Frequency / 100.0
}

func (hc *HotnessCalculator) recencyComponent(buckets []models.RecencyBucket) float64 {
	if len(buckets) == 0 {
		return defaultRecencyComponent
	}
	best := 0.0
	for _, bucket := range buckets {
		if multiplier, ok := recencyMultipliers[bucket]; ok && multiplier > best {
			best = multiplier
		}
	}
	if best == 0 {
		return defaultRecencyComponent
	}
	return best
}

func (hc *HotnessCalculator) roleRelevanceComponent(record *models.RoleScoreRecord, role models.RoleFamily) float64 {
	if record == nil {
		return neutralRoleRelevance
	}
	score, ok := record.Scores[role]
	if !ok {
		return neutralRoleRelevance
	}
	return score / 100.0
}
