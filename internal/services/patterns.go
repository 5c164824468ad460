package services

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// PatternNormalizer maps free-form algorithm-pattern labels onto the
// canonical taxonomy in taxonomy.go. Matching order: exact variant
// lookup, fuzzy containment against canonical labels, ordered keyword
// rules, and finally the raw label kept as its own bucket so noisy data
// is never dropped.
type PatternNormalizer struct {
	variants map[string]string
	rules    []patternRule
	logger   *logrus.Logger
}

func NewPatternNormalizer(logger *logrus.Logger) *PatternNormalizer {
	return &PatternNormalizer{
		variants: initializePatternVariants(),
		rules:    initializePatternRules(),
		logger:   logger,
	}
}

func lowered(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Normalize resolves a single label to its canonical form. Normalizing
// an already-canonical label returns it unchanged.
func (pn *PatternNormalizer) Normalize(label string) string {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return ""
	}

	lower := strings.ToLower(trimmed)

	// Exact variant match
	if canonical, ok := pn.variants[lower]; ok {
		return canonical
	}

	// Fuzzy containment: either string is a substring of the other
	for _, canonical := range CanonicalPatterns {
		canonLower := strings.ToLower(canonical)
		if strings.Contains(lower, canonLower) || strings.Contains(canonLower, lower) {
			return canonical
		}
	}

	// Ordered keyword heuristics, first match wins
	for _, rule := range pn.rules {
		if strings.Contains(lower, rule.keyword) {
			return rule.canonical
		}
	}

	// Residual bucket: keep the raw label rather than dropping it
	return trimmed
}

// NormalizeAll resolves a batch of labels to a de-duplicated,
// order-independent set, sorted for stable output.
func (pn *PatternNormalizer) NormalizeAll(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	result := make([]string, 0, len(labels))

	for _, label := range labels {
		canonical := pn.Normalize(label)
		if canonical == "" || seen[canonical] {
			continue
		}
		seen[canonical] = true
		result = append(result, canonical)
	}

	sort.Strings(result)
	return result
}
