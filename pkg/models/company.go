package models

// CompanyProfile describes a company's technology footprint. Read-only
// input to company-context scoring.
type CompanyProfile struct {
	ID                    string              `json:"id" db:"id"`
	Name                  string              `json:"name" db:"name"`
	Technologies          []string            `json:"technologies,omitempty" db:"technologies"`
	TechStack             map[string][]string `json:"tech_stack,omitempty" db:"tech_stack"`
	EngineeringChallenges []string            `json:"engineering_challenges,omitempty" db:"engineering_challenges"`
	ProblemDomains        []string            `json:"problem_domains,omitempty" db:"problem_domains"`
	Buzzwords             []string            `json:"buzzwords,omitempty" db:"buzzwords"`
}
