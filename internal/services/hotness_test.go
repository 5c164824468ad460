package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/temcen/prepforge/pkg/models"
)

func TestHotnessWeightsSumToOne(t *testing.T) {
	sum := hotnessWeightFrequency + hotnessWeightRecency +
		hotnessWeightRoleRelevance + hotnessWeightCompanyContext
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestHotnessCalculator_DefaultsForSparseData(t *testing.T) {
	hc := NewHotnessCalculator(NewCompanyContextAnalyzer())

	problem := &models.Problem{ID: "p1", Title: "Two Sum", Difficulty: models.DifficultyEasy}

	result := hc.Calculate(problem, nil, models.RoleBackend, nil, nil, nil)

	assert.False(t, result.ActuallyAsked)
	assert.Equal(t, defaultFrequencyComponent, result.Breakdown.Frequency)
	assert.Equal(t, defaultRecencyComponent, result.Breakdown.Recency)
	assert.Equal(t, neutralRoleRelevance, result.Breakdown.RoleRelevance)
	assert.Equal(t, neutralContextScore, result.Breakdown.CompanyContext)

	expected := hotnessWeightFrequency*defaultFrequencyComponent +
		hotnessWeightRecency*defaultRecencyComponent +
		hotnessWeightRoleRelevance*neutralRoleRelevance +
		hotnessWeightCompanyContext*neutralContextScore
	assert.InDelta(t, 100*expected, result.Score, 0.5)
}

func TestHotnessCalculator_ComponentValues(t *testing.T) {
	hc := NewHotnessCalculator(NewCompanyContextAnalyzer())

	problem := &models.Problem{ID: "p1", Title: "LRU Cache", Difficulty: models.DifficultyMedium}
	record := &models.RoleScoreRecord{
		ProblemID: "p1",
		Scores:    map[models.RoleFamily]float64{models.RoleBackend: 80},
	}
	frequency := &models.FrequencyEntry{ProblemID: "p1", Frequency: 90}

	result := hc.Calculate(
		problem, record, models.RoleBackend, nil, frequency,
		[]models.RecencyBucket{models.BucketLast30Days},
	)

	assert.True(t, result.ActuallyAsked)
	assert.InDelta(t, 0.9, result.Breakdown.Frequency, 1e-9)
	assert.InDelta(t, 1.0, result.Breakdown.Recency, 1e-9)
	assert.InDelta(t, 0.8, result.Breakdown.RoleRelevance, 1e-9)
	assert.InDelta(t, neutralContextScore, result.Breakdown.CompanyContext, 1e-9)
}

func TestHotnessCalculator_BestRecencyBucketWins(t *testing.T) {
	hc := NewHotnessCalculator(NewCompanyContextAnalyzer())

	tests := []struct {
		name     string
		buckets  []models.RecencyBucket
		expected float64
	}{
		{"none", nil, defaultRecencyComponent},
		{"single old", []models.RecencyBucket{models.BucketOlder6Months}, 0.2},
		{"all time only", []models.RecencyBucket{models.BucketAllTime}, 0.5},
		{
			"recent wins over old",
			[]models.RecencyBucket{models.BucketOlder6Months, models.BucketLast30Days},
			1.0,
		},
		{
			"three months beats all time",
			[]models.RecencyBucket{models.BucketAllTime, models.BucketLast3Months},
			0.7,
		},
		{"unknown bucket falls back", []models.RecencyBucket{"weird"}, defaultRecencyComponent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, hc.recencyComponent(tt.buckets), 1e-9)
		})
	}
}

func TestHotnessCalculator_FrequencyMonotonic(t *testing.T) {
	hc := NewHotnessCalculator(NewCompanyContextAnalyzer())
	problem := &models.Problem{ID: "p1", Title: "Word Ladder"}

	low := hc.Calculate(problem, nil, models.RoleBackend, nil,
		&models.FrequencyEntry{ProblemID: "p1", Frequency: 20}, nil)
	high := hc.Calculate(problem, nil, models.RoleBackend, nil,
		&models.FrequencyEntry{ProblemID: "p1", Frequency: 80}, nil)

	assert.Greater(t, high.Score, low.Score)
}

func TestHotnessCalculator_RoleRelevanceUsesRequestedRole(t *testing.T) {
	hc := NewHotnessCalculator(NewCompanyContextAnalyzer())
	problem := &models.Problem{ID: "p1", Title: "Design a Trie"}
	record := &models.RoleScoreRecord{
		ProblemID: "p1",
		Scores: map[models.RoleFamily]float64{
			models.RoleBackend:  90,
			models.RoleFrontend: 10,
		},
	}

	backend := hc.Calculate(problem, record, models.RoleBackend, nil, nil, nil)
	frontend := hc.Calculate(problem, record, models.RoleFrontend, nil, nil, nil)
	missing := hc.Calculate(problem, record, models.RoleSecurity, nil, nil, nil)

	assert.InDelta(t, 0.9, backend.Breakdown.RoleRelevance, 1e-9)
	assert.InDelta(t, 0.1, frontend.Breakdown.RoleRelevance, 1e-9)
	assert.InDelta(t, neutralRoleRelevance, missing.Breakdown.RoleRelevance, 1e-9)
	assert.Greater(t, backend.Score, frontend.Score)
}

func TestHotnessCalculator_ScoreStaysInRange(t *testing.T) {
	hc := NewHotnessCalculator(NewCompanyContextAnalyzer())
	problem := &models.Problem{ID: "p1", Title: "Max Flow"}
	record := &models.RoleScoreRecord{
		ProblemID: "p1",
		Scores:    map[models.RoleFamily]float64{models.RoleBackend: 100},
	}

	result := hc.Calculate(
		problem, record, models.RoleBackend, nil,
		&models.FrequencyEntry{ProblemID: "p1", Frequency: 100},
		[]models.RecencyBucket{models.BucketLast30Days},
	)

	assert.LessOrEqual(t, result.Score, 100.0)
	assert.GreaterOrEqual(t, result.Score, 0.0)
}
