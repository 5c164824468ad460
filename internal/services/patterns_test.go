package services

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func TestPatternNormalizer_Normalize(t *testing.T) {
	pn := NewPatternNormalizer(testLogger())

	tests := []struct {
		name     string
		label    string
		expected string
	}{
		{
			name:     "canonical label unchanged",
			label:    "Dynamic Programming",
			expected: PatternDynamicProg,
		},
		{
			name:     "known variant",
			label:    "dp",
			expected: PatternDynamicProg,
		},
		{
			name:     "variant with casing and whitespace",
			label:    "  Priority Queue ",
			expected: PatternHeap,
		},
		{
			name:     "containment match",
			label:    "bfs on grid",
			expected: PatternBFS,
		},
		{
			name:     "specific wins over generic containment",
			label:    "monotonic stack optimization",
			expected: PatternMonotonicStack,
		},
		{
			name:     "keyword rule",
			label:    "0/1 knapsack variant",
			expected: PatternDynamicProg,
		},
		{
			name:     "string keyword rule",
			label:    "longest palindromic substring technique",
			expected: PatternStringProcessing,
		},
		{
			name:     "residual raw label",
			label:    "meet in the middle",
			expected: "meet in the middle",
		},
		{
			name:     "empty label",
			label:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, pn.Normalize(tt.label))
		})
	}
}

func TestPatternNormalizer_Idempotent(t *testing.T) {
	pn := NewPatternNormalizer(testLogger())

	inputs := []string{
		"dp", "priority queue", "bfs on grid", "knapsack problem",
		"meet in the middle", "Two Pointers", "disjoint set union",
	}
	for _, label := range inputs {
		once := pn.Normalize(label)
		twice := pn.Normalize(once)
		assert.Equal(t, once, twice, "normalizing %q must be idempotent", label)
	}

	for _, canonical := range CanonicalPatterns {
		assert.Equal(t, canonical, pn.Normalize(canonical))
	}
}

func TestPatternNormalizer_NormalizeAll(t *testing.T) {
	pn := NewPatternNormalizer(testLogger())

	result := pn.NormalizeAll([]string{"dp", "memoization", "tabulation", "bfs", "", "BFS"})

	assert.Equal(t, []string{PatternBFS, PatternDynamicProg}, result)
}

func TestPatternNormalizer_NormalizeAllOrderIndependent(t *testing.T) {
	pn := NewPatternNormalizer(testLogger())

	a := pn.NormalizeAll([]string{"heap", "dp", "union find"})
	b := pn.NormalizeAll([]string{"union find", "heap", "dp"})

	assert.Equal(t, a, b)
}
