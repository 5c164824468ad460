package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/temcen/prepforge/internal/middleware"
	"github.com/temcen/prepforge/internal/services"
	"github.com/temcen/prepforge/internal/validation"
	"github.com/temcen/prepforge/pkg/models"
)

type StudyPlanHandler struct {
	orchestrator services.StudyPlanOrchestratorInterface
	schemas      *validation.SchemaValidator
	validate     *validator.Validate
	logger       *logrus.Logger
}

func NewStudyPlanHandler(
	orchestrator services.StudyPlanOrchestratorInterface,
	schemas *validation.SchemaValidator,
	logger *logrus.Logger,
) *StudyPlanHandler {
	return &StudyPlanHandler{
		orchestrator: orchestrator,
		schemas:      schemas,
		validate:     validator.New(),
		logger:       logger,
	}
}

// Generate handles POST /api/v1/study-plans.
func (h *StudyPlanHandler) Generate(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": "Failed to read request body",
			},
		})
		return
	}

	if result := h.schemas.ValidateStudyPlanRequest(body); !result.Valid {
		c.JSON(http.StatusBadRequest, result.ToAPIError())
		return
	}

	var request models.StudyPlanRequest
	if err := json.Unmarshal(body, &request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": "Request body must be valid JSON",
			},
		})
		return
	}

	if err := h.validate.Struct(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	middleware.AnnotatePlan(c, request.CompanyID, string(request.RoleFamily))

	plan, err := h.orchestrator.GeneratePlan(c.Request.Context(), &request)
	if err != nil {
		h.respondError(c, &request, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

func (h *StudyPlanHandler) respondError(c *gin.Context, req *models.StudyPlanRequest, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": validationErr.Message,
			},
		})
	case errors.Is(err, services.ErrCompanyNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":    "COMPANY_NOT_FOUND",
				"message": "Company profile not found",
			},
		})
	case errors.Is(err, services.ErrSelectionExhausted):
		h.logger.WithFields(logrus.Fields{
			"company_id": req.CompanyID,
			"role":       req.RoleFamily,
		}).Warn("Catalog could not supply a viable plan")
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": gin.H{
				"code":    "INSUFFICIENT_CATALOG",
				"message": "The problem catalog cannot supply a viable plan for this request",
			},
		})
	default:
		h.logger.WithError(err).WithFields(logrus.Fields{
			"company_id": req.CompanyID,
			"role":       req.RoleFamily,
		}).Error("Failed to generate study plan")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "PLAN_GENERATION_FAILED",
				"message": "Failed to generate study plan",
			},
		})
	}
}
