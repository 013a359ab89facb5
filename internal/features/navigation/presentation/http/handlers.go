package http

import (
	"net/http"

	"ai-navigation/backend/internal/features/navigation/application"
	"ai-navigation/backend/internal/features/navigation/domain"

	"github.com/gin-gonic/gin"
)

// NavigationHandler holds the navigation service.
type NavigationHandler struct {
	navigationService application.NavigationService
}

// NewNavigationHandler creates a new NavigationHandler.
func NewNavigationHandler(navigationService application.NavigationService) *NavigationHandler {
	return &NavigationHandler{
		navigationService: navigationService,
	}
}

// DetectIntentHandler handles intent classification. Only a body that cannot
// be decoded is rejected; every upstream failure is answered with 200.
func (h *NavigationHandler) DetectIntentHandler(c *gin.Context) {
	var req domain.IntentDetectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.navigationService.DetectIntent(c.Request.Context(), &req)
	c.JSON(http.StatusOK, result.Response)
}

// GenerateResponseHandler handles guidance message generation.
func (h *NavigationHandler) GenerateResponseHandler(c *gin.Context) {
	var req domain.GenerateResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.navigationService.GenerateResponse(c.Request.Context(), &req)
	c.JSON(http.StatusOK, result.Response)
}
