package models

// Difficulty is the catalog-wide difficulty classification.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// RoleFamily is one of the five engineering specializations used to
// personalize scoring.
type RoleFamily string

const (
	RoleBackend  RoleFamily = "backend"
	RoleFrontend RoleFamily = "frontend"
	RoleML       RoleFamily = "ml"
	RoleSecurity RoleFamily = "security"
	RoleDevOps   RoleFamily = "devops"
)

// AllRoleFamilies lists every supported role family.
var AllRoleFamilies = []RoleFamily{
	RoleBackend, RoleFrontend, RoleML, RoleSecurity, RoleDevOps,
}

func (r RoleFamily) Valid() bool {
	for _, known := range AllRoleFamilies {
		if r == known {
			return true
		}
	}
	return false
}

// Problem is an immutable catalog record. It is sourced externally and
// never modified by the planner.
type Problem struct {
	ID          string     `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Difficulty  Difficulty `json:"difficulty" db:"difficulty"`
	Description string     `json:"description,omitempty" db:"description"`
	Approach    string     `json:"approach,omitempty" db:"approach"`
	Blind75     bool       `json:"blind75" db:"blind75"`
}

// RoleScoreRecord carries per-role relevance scores (0-100) and the
// enriched topic annotations for one problem.
type RoleScoreRecord struct {
	ProblemID      string                 `json:"problem_id" db:"problem_id"`
	Scores         map[RoleFamily]float64 `json:"scores" db:"scores"`
	DataStructures []string               `json:"data_structures,omitempty" db:"data_structures"`
	Patterns       []string               `json:"patterns,omitempty" db:"patterns"`
	DomainConcepts []string               `json:"domain_concepts,omitempty" db:"domain_concepts"`
	Complexity     string                 `json:"complexity,omitempty" db:"complexity"`
	Version        int                    `json:"version" db:"version"`
}

// RecencyBucket is one of the five fixed windows indicating how recently
// a company is known to have asked a problem.
type RecencyBucket string

const (
	BucketLast30Days   RecencyBucket = "last_30_days"
	BucketLast3Months  RecencyBucket = "last_3_months"
	BucketLast6Months  RecencyBucket = "last_6_months"
	BucketOlder6Months RecencyBucket = "older_6_months"
	BucketAllTime      RecencyBucket = "all_time"
)

// AllRecencyBuckets lists the buckets in most-recent-first order.
var AllRecencyBuckets = []RecencyBucket{
	BucketLast30Days, BucketLast3Months, BucketLast6Months,
	BucketOlder6Months, BucketAllTime,
}

// FrequencyEntry marks a problem as actually asked at a company within
// one recency bucket.
type FrequencyEntry struct {
	ProblemID  string     `json:"problem_id"`
	Frequency  float64    `json:"frequency"` // 0-100
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Topics     []string   `json:"topics,omitempty"`
}

// CompanyFrequency is the per-company snapshot of frequency entries
// grouped by recency bucket.
type CompanyFrequency struct {
	CompanyID string                             `json:"company_id"`
	Buckets   map[RecencyBucket][]FrequencyEntry `json:"buckets"`
}

// HotnessBreakdown exposes the weighted components behind a hotness
// score, each already normalized to [0,1].
type HotnessBreakdown struct {
	Frequency      float64 `json:"frequency"`
	Recency        float64 `json:"recency"`
	RoleRelevance  float64 `json:"role_relevance"`
	CompanyContext float64 `json:"company_context"`
}

// HotnessResult is the composite 0-100 priority for a (problem,
// company, role) triple.
type HotnessResult struct {
	Score         float64          `json:"score"`
	Breakdown     HotnessBreakdown `json:"breakdown"`
	ActuallyAsked bool             `json:"actually_asked"`
}

// EnrichedProblem is the per-request working view of a catalog problem.
// It is never persisted individually.
type EnrichedProblem struct {
	Problem
	Hotness          HotnessResult   `json:"hotness"`
	Frequency        *FrequencyEntry `json:"frequency,omitempty"`
	Buckets          []RecencyBucket `json:"buckets,omitempty"`
	RoleScore        float64         `json:"role_score"`
	Topics           []string        `json:"topics,omitempty"`
	EstimatedMinutes int             `json:"estimated_minutes"`
	Day              int             `json:"day,omitempty"`
}
