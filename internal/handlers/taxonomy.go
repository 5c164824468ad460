package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/prepforge/internal/services"
)

type TaxonomyHandler struct {
	patterns *services.PatternNormalizer
	logger   *logrus.Logger
}

func NewTaxonomyHandler(patterns *services.PatternNormalizer, logger *logrus.Logger) *TaxonomyHandler {
	return &TaxonomyHandler{
		patterns: patterns,
		logger:   logger,
	}
}

// Patterns handles GET /api/v1/taxonomy/patterns. With a label query
// parameter it also reports the canonical form of that label.
func (h *TaxonomyHandler) Patterns(c *gin.Context) {
	response := gin.H{
		"patterns": services.CanonicalPatterns,
		"count":    len(services.CanonicalPatterns),
	}

	if label := c.Query("label"); label != "" {
		response["label"] = label
		response["canonical"] = h.patterns.Normalize(label)
	}

	c.JSON(http.StatusOK, response)
}
