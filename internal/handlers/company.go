package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/prepforge/internal/services"
)

type CompanyHandler struct {
	catalog services.CatalogProvider
	logger  *logrus.Logger
}

func NewCompanyHandler(catalog services.CatalogProvider, logger *logrus.Logger) *CompanyHandler {
	return &CompanyHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// Get handles GET /api/v1/companies/:companyId.
func (h *CompanyHandler) Get(c *gin.Context) {
	companyID := c.Param("companyId")
	if companyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_COMPANY_ID",
				"message": "Company ID is required",
			},
		})
		return
	}

	company, err := h.catalog.CompanyProfile(c.Request.Context(), companyID)
	if err != nil {
		h.logger.WithError(err).WithField("company_id", companyID).Error("Failed to load company profile")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "COMPANY_LOOKUP_FAILED",
				"message": "Failed to load company profile",
			},
		})
		return
	}
	if company == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":    "COMPANY_NOT_FOUND",
				"message": "Company profile not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, company)
}
