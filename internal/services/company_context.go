package services

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/temcen/prepforge/pkg/models"
)

// Sub-score weights for the company-context boost. Tech-stack overlap
// and domain-concept match dominate, buzzwords are a tiebreaker.
const (
	contextWeightTechStack = 0.4
	contextWeightDomain    = 0.4
	contextWeightBuzzword  = 0.2

	// Normalizers saturate so long company lists cannot push a
	// sub-score past 1.
	techOverlapNormalizer = 5.0
	buzzwordNormalizer    = 3.0

	neutralContextScore = 0.5
)

// CompanyContextAnalyzer scores how well a problem's text and domain
// annotations fit a company's technology footprint. Pure computation,
// no failure modes: missing company data degrades to neutral scores.
type CompanyContextAnalyzer struct {
	stopWords map[string]bool
}

func NewCompanyContextAnalyzer() *CompanyContextAnalyzer {
	return &CompanyContextAnalyzer{
		stopWords: initializeContextStopWords(),
	}
}

// Score returns the 0-1 company-context boost for one problem.
func (a *CompanyContextAnalyzer) Score(
	problem *models.Problem,
	record *models.RoleScoreRecord,
	company *models.CompanyProfile,
) float64 {
	if company == nil {
		return neutralContextScore
	}

	text := problem.Title + " " + problem.Description + " " + problem.Approach
	tokens := a.tokenize(text)

	tech := a.techStackOverlap(tokens, company)
	domain := a.domainConceptMatch(record, company)
	buzz := a.buzzwordMatch(text, company)

	return contextWeightTechStack*tech +
		contextWeightDomain*domain +
		contextWeightBuzzword*buzz
}

// tokenize lowercases, strips non-alphanumerics, and drops stop words
// and tokens of two characters or fewer.
func (a *CompanyContextAnalyzer) tokenize(text string) map[string]bool {
	normalized := strings.ToLower(norm.NFC.String(text))

	fields := strings.FieldsFunc(normalized, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})

	tokens := make(map[string]bool, len(fields))
	for _, field := range fields {
		if len(field) <= 2 || a.stopWords[field] {
			continue
		}
		tokens[field] = true
	}
	return tokens
}

// techStackOverlap counts company technology names (full weight) and
// tech-stack-layer entries (half weight) that substring-overlap any
// problem token, normalized by 5 and capped at 1.
func (a *CompanyContextAnalyzer) techStackOverlap(tokens map[string]bool, company *models.CompanyProfile) float64 {
	matched := 0.0

	for _, tech := range company.Technologies {
		if tokensOverlap(tokens, tech) {
			matched += 1.0
		}
	}
	for _, layer := range company.TechStack {
		for _, entry := range layer {
			if tokensOverlap(tokens, entry) {
				matched += 0.5
			}
		}
	}

	score := matched / techOverlapNormalizer
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func tokensOverlap(tokens map[string]bool, name string) bool {
	needle := lowered(name)
	if needle == "" {
		return false
	}
	for token := range tokens {
		if strings.Contains(token, needle) || strings.Contains(needle, token) {
			return true
		}
	}
	return false
}

// domainConceptMatch scores problem domain-concept tags against the
// company's engineering challenges (0.3 each) and problem-domain tags
// (0.2 each), normalized by tag count. Neutral when either side has no
// domain data.
func (a *CompanyContextAnalyzer) domainConceptMatch(record *models.RoleScoreRecord, company *models.CompanyProfile) float64 {
	if record == nil || len(record.DomainConcepts) == 0 {
		return neutralContextScore
	}
	if len(company.EngineeringChallenges) == 0 && len(company.ProblemDomains) == 0 {
		return neutralContextScore
	}

	total := 0.0
	for _, concept := range record.DomainConcepts {
		tag := strings.ReplaceAll(lowered(concept), "_", " ")
		if tag == "" {
			continue
		}

		for _, challenge := range company.EngineeringChallenges {
			if substringMatch(lowered(challenge), tag) {
				total += 0.3
				break
			}
		}
		for _, domain := range company.ProblemDomains {
			if substringMatch(strings.ReplaceAll(lowered(domain), "_", " "), tag) {
				total += 0.2
				break
			}
		}
	}

	score := total / float64(len(record.DomainConcepts))
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func substringMatch(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// buzzwordMatch counts case-insensitive buzzword occurrences in the
// problem text, normalized by 3 and capped at 1. Neutral when the
// company has no buzzwords configured.
func (a *CompanyContextAnalyzer) buzzwordMatch(text string, company *models.CompanyProfile) float64 {
	if len(company.Buzzwords) == 0 {
		return neutralContextScore
	}

	lower := strings.ToLower(text)
	occurrences := 0
	for _, buzzword := range company.Buzzwords {
		needle := lowered(buzzword)
		if needle == "" {
			continue
		}
		occurrences += strings.Count(lower, needle)
	}

	score := float64(occurrences) / buzzwordNormalizer
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func initializeContextStopWords() map[string]bool {
	words := []string{
		"the", "and", "for", "are", "with", "that", "this", "from",
		"you", "your", "can", "will", "has", "have", "had", "was",
		"were", "been", "each", "which", "their", "them", "they",
		"then", "than", "all", "any", "also", "its", "into", "only",
		"other", "some", "such", "when", "where", "while", "given",
		"return", "returns", "should", "must", "may", "not", "but",
		"using", "use", "used", "one", "two", "number", "example",
	}
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
