package http

import (
	"net/http"

	"ai-navigation/backend/internal/features/health/application"

	"github.com/gin-gonic/gin"
)

// HealthHandler holds the health service.
type HealthHandler struct {
	healthService application.HealthService
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(healthService application.HealthService) *HealthHandler {
	return &HealthHandler{
		healthService: healthService,
	}
}

// GetHealthHandler reports upstream health. The HTTP status is always 200;
// the body carries the verdict.
func (h *HealthHandler) GetHealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.healthService.Check(c.Request.Context()))
}
