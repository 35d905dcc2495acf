package handlers

import (
	"net/http"

	"innerai_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	*BaseHandler
	healthService services.HealthService
}

func NewHealthHandler(base *BaseHandler, healthService services.HealthService) *HealthHandler {
	return &HealthHandler{
		BaseHandler:   base,
		healthService: healthService,
	}
}

func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Check)
}

// Check godoc
// @Summary Доступность БД и Dify
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, h.healthService.Check(h.GetDB(c)))
}
