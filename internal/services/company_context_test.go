package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/temcen/prepforge/pkg/models"
)

func TestCompanyContextAnalyzer_NilCompanyIsNeutral(t *testing.T) {
	analyzer := NewCompanyContextAnalyzer()

	problem := &models.Problem{ID: "p1", Title: "Two Sum", Description: "Find two numbers"}
	score := analyzer.Score(problem, nil, nil)

	assert.Equal(t, neutralContextScore, score)
}

func TestCompanyContextAnalyzer_NoSignalDegradesToNeutral(t *testing.T) {
	analyzer := NewCompanyContextAnalyzer()

	problem := &models.Problem{
		ID:          "p1",
		Title:       "Reverse Linked List",
		Description: "Reverse a singly linked list",
	}
	company := &models.CompanyProfile{ID: "c1", Name: "Acme"}

	// No technologies, no domains, no buzzwords: tech overlap is 0,
	// domain and buzzword sub-scores fall back to neutral.
	score := analyzer.Score(problem, nil, company)

	expected := contextWeightTechStack*0 +
		contextWeightDomain*neutralContextScore +
		contextWeightBuzzword*neutralContextScore
	assert.InDelta(t, expected, score, 1e-9)
}

func TestCompanyContextAnalyzer_TechStackOverlap(t *testing.T) {
	analyzer := NewCompanyContextAnalyzer()

	problem := &models.Problem{
		ID:          "p1",
		Title:       "Design a Redis-backed rate limiter",
		Description: "Use kafka streams to aggregate counters",
	}
	company := &models.CompanyProfile{
		ID:           "c1",
		Name:         "Acme",
		Technologies: []string{"redis", "kafka", "terraform"},
	}

	score := analyzer.Score(problem, nil, company)

	// Two of three technologies overlap: tech sub-score 2/5, domain and
	// buzzword neutral.
	expected := contextWeightTechStack*(2.0/techOverlapNormalizer) +
		contextWeightDomain*neutralContextScore +
		contextWeightBuzzword*neutralContextScore
	assert.InDelta(t, expected, score, 1e-9)
}

func TestCompanyContextAnalyzer_TechStackLayerHalfWeight(t *testing.T) {
	analyzer := NewCompanyContextAnalyzer()

	tokens := analyzer.tokenize("streaming data through kafka into postgres")
	company := &models.CompanyProfile{
		TechStack: map[string][]string{
			"data": {"kafka", "postgres"},
		},
	}

	score := analyzer.techStackOverlap(tokens, company)

	assert.InDelta(t, 1.0/techOverlapNormalizer, score, 1e-9)
}

func TestCompanyContextAnalyzer_TechOverlapSaturates(t *testing.T) {
	analyzer := NewCompanyContextAnalyzer()

	tokens := analyzer.tokenize("kafka redis postgres kubernetes terraform grafana prometheus elasticsearch")
	company := &models.CompanyProfile{
		Technologies: []string{
			"kafka", "redis", "postgres", "kubernetes", "terraform",
			"grafana", "prometheus", "elasticsearch",
		},
	}

	assert.Equal(t, 1.0, analyzer.techStackOverlap(tokens, company))
}

func TestCompanyContextAnalyzer_DomainConceptMatch(t *testing.T) {
	analyzer := NewCompanyContextAnalyzer()

	record := &models.RoleScoreRecord{
		ProblemID:      "p1",
		DomainConcepts: []string{"rate_limiting", "caching"},
	}
	company := &models.CompanyProfile{
		EngineeringChallenges: []string{"API rate limiting at scale"},
		ProblemDomains:        []string{"distributed caching"},
	}

	score := analyzer.domainConceptMatch(record, company)

	// rate_limiting hits a challenge (0.3), caching hits a domain (0.2),
	// normalized by two concepts.
	assert.InDelta(t, (0.3+0.2)/2.0, score, 1e-9)
}

func TestCompanyContextAnalyzer_DomainNeutralWithoutTags(t *testing.T) {
	analyzer := NewCompanyContextAnalyzer()

	company := &models.CompanyProfile{
		EngineeringChallenges: []string{"scaling"},
	}

	assert.Equal(t, neutralContextScore, analyzer.domainConceptMatch(nil, company))
	assert.Equal(t, neutralContextScore, analyzer.domainConceptMatch(&models.RoleScoreRecord{}, company))
}

func TestCompanyContextAnalyzer_BuzzwordMatch(t *testing.T) {
	analyzer := NewCompanyContextAnalyzer()

	company := &models.CompanyProfile{
		Buzzwords: []string{"scalability", "throughput"},
	}

	score := analyzer.buzzwordMatch("Design for scalability and high throughput. Scalability matters.", company)

	// Three occurrences over the normalizer of 3, capped at 1.
	assert.Equal(t, 1.0, score)

	single := analyzer.buzzwordMatch("optimize throughput here", company)
	assert.InDelta(t, 1.0/buzzwordNormalizer, single, 1e-9)
}

func TestCompanyContextAnalyzer_TokenizeDropsNoise(t *testing.T) {
	analyzer := NewCompanyContextAnalyzer()

	tokens := analyzer.tokenize("Given an array of N integers, return the maximum subarray sum")

	assert.False(t, tokens["given"], "stop word kept")
	assert.False(t, tokens["an"], "short token kept")
	assert.True(t, tokens["integers"])
	assert.True(t, tokens["subarray"])
	assert.True(t, tokens["maximum"])
}
