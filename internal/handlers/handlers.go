package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/temcen/prepforge/internal/services"
	"github.com/temcen/prepforge/internal/validation"
)

type Handlers struct {
	Health    *HealthHandler
	StudyPlan *StudyPlanHandler
	Company   *CompanyHandler
	Taxonomy  *TaxonomyHandler
	Auth      *AuthHandler
}

func New(logger *logrus.Logger, services *services.Services) (*Handlers, error) {
	schemaValidator, err := validation.NewSchemaValidator()
	if err != nil {
		return nil, err
	}

	return &Handlers{
		Health:    NewHealthHandler(logger, services.Health),
		StudyPlan: NewStudyPlanHandler(services.Orchestrator, schemaValidator, logger),
		Company:   NewCompanyHandler(services.Catalog, logger),
		Taxonomy:  NewTaxonomyHandler(services.Patterns, logger),
		Auth:      NewAuthHandler(services.Auth, schemaValidator, logger),
	}, nil
}
