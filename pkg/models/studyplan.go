package models

import "time"

// StudyPlanRequest is the caller-facing request for a personalized
// study plan. Validation limits mirror what the planner can honor.
type StudyPlanRequest struct {
	CompanyID    string     `json:"company_id" validate:"required"`
	RoleFamily   RoleFamily `json:"role_family" validate:"required,oneof=backend frontend ml security devops"`
	TimelineDays int        `json:"timeline_days" validate:"required,min=1,max=90"`
	HoursPerDay  float64    `json:"hours_per_day" validate:"required,min=0.5,max=8"`
	Difficulty   []string   `json:"difficulty,omitempty" validate:"omitempty,min=1,dive,oneof=Easy Medium Hard"`
	TopicFocus   []string   `json:"topic_focus,omitempty" validate:"omitempty,max=5"`
	Blind75Only  bool       `json:"blind75_only,omitempty"`
}

// StudyDay is one calendar day of the generated plan.
type StudyDay struct {
	Day            int               `json:"day"`
	Date           time.Time         `json:"date"`
	Problems       []EnrichedProblem `json:"problems"`
	EstimatedHours float64           `json:"estimated_hours"`
	Topics         []string          `json:"topics,omitempty"`
}

// PlanQuality is the metadata describing how the candidate pool was
// assembled, including which fallback stage ultimately supplied it.
type PlanQuality struct {
	FallbackStage     int      `json:"fallback_stage"`
	StageName         string   `json:"stage_name"`
	Relaxations       []string `json:"relaxations,omitempty"`
	Scope             string   `json:"scope"`
	ActuallyAsked     int      `json:"actually_asked"`
	Extrapolated      int      `json:"extrapolated"`
	GhostReferences   int      `json:"ghost_references"`
	AverageHotness    float64  `json:"average_hotness"`
	DroppedBySchedule int      `json:"dropped_by_schedule,omitempty"`
}

// StudyPlanResponse is the assembled plan returned to the HTTP layer
// and stored in the durable plan cache.
type StudyPlanResponse struct {
	CompanyID      string      `json:"company_id"`
	CompanyName    string      `json:"company_name"`
	RoleFamily     RoleFamily  `json:"role_family"`
	TotalProblems  int         `json:"total_problems"`
	EstimatedHours float64     `json:"estimated_hours"`
	Days           []StudyDay  `json:"days"`
	Quality        PlanQuality `json:"quality"`
	GeneratedAt    time.Time   `json:"generated_at"`
	CacheHit       bool        `json:"cache_hit"`
}

// CachedStudyPlan wraps a response for durable storage keyed by the
// request signature.
type CachedStudyPlan struct {
	Signature string            `json:"signature"`
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt time.Time         `json:"expires_at"`
	Hits      int               `json:"hits"`
	Response  StudyPlanResponse `json:"response"`
}
