package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/temcen/prepforge/internal/middleware"
	"github.com/temcen/prepforge/internal/services"
	"github.com/temcen/prepforge/internal/validation"
	"github.com/temcen/prepforge/pkg/models"
)

type AuthHandler struct {
	authService *services.AuthService
	validator   *validation.SchemaValidator
	logger      *logrus.Logger
}

func NewAuthHandler(
	authService *services.AuthService,
	validator *validation.SchemaValidator,
	logger *logrus.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator,
		logger:      logger,
	}
}

// Token handles POST /api/v1/auth/token, exchanging an API key for a
// short-lived JWT.
func (h *AuthHandler) Token(c *gin.Context) {
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

	if result := h.validator.ValidateAuthRequest(body); !result.Valid {
		c.JSON(http.StatusBadRequest, result.ToAPIError())
		return
	}

	var request models.AuthRequest
	if err := json.Unmarshal(body, &request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": "Request body must be valid JSON",
			},
		})
		return
	}

	userTier, err := h.authService.ValidateAPIKey(request.APIKey)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": gin.H{
				"code":    "INVALID_API_KEY",
				"message": "Invalid API key",
			},
		})
		return
	}

	userID := uuid.New()
	token, err := h.authService.GenerateToken(userID, request.APIKey, userTier)
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "TOKEN_GENERATION_FAILED",
				"message": "Failed to generate token",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.authService.TokenTTL()),
		UserTier:  userTier,
	})
}

// Revoke handles POST /api/v1/auth/revoke for the authenticated user.
func (h *AuthHandler) Revoke(c *gin.Context) {
	userID, _, _ := middleware.GetUserFromContext(c)

	if err := h.authService.RevokeToken(userID); err != nil {
		h.logger.WithError(err).Error("Failed to revoke token")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "TOKEN_REVOCATION_FAILED",
				"message": "Failed to revoke token",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"revoked": true})
}
