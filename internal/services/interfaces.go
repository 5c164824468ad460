package services

import (
	"context"

	"github.com/temcen/prepforge/internal/messaging"
	"github.com/temcen/prepforge/pkg/models"
)

// CatalogProvider defines the read-only view of the externally
// materialized collections the planner consumes.
type CatalogProvider interface {
	Problems(ctx context.Context) ([]models.Problem, error)
	RoleScores(ctx context.Context) (map[string]*models.RoleScoreRecord, error)
	CompanyProfile(ctx context.Context, companyID string) (*models.CompanyProfile, error)
	CompanyFrequency(ctx context.Context, companyID string) (*models.CompanyFrequency, error)
}

// ProblemSelectorInterface defines the interface for candidate selection
type ProblemSelectorInterface interface {
	Select(ctx context.Context, cfg ProblemSelectionConfig) (*SelectionResult, error)
}

// StudyPlanOrchestratorInterface defines the interface for plan generation
type StudyPlanOrchestratorInterface interface {
	GeneratePlan(ctx context.Context, req *models.StudyPlanRequest) (*models.StudyPlanResponse, error)
}

// PlanEventPublisher defines the fire-and-forget analytics sink
type PlanEventPublisher interface {
	PublishPlanGenerated(ctx context.Context, event *messaging.PlanEvent) error
}
