package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ming0627/bellyfed-new-sub002/internal/application/container"
)

// HealthHandlers serves liveness checks.
type HealthHandlers struct {
	container *container.Container
}

// NewHealthHandlers creates the handler group.
func NewHealthHandlers(c *container.Container) *HealthHandlers {
	return &HealthHandlers{container: c}
}

// GetHealth handles GET /api/v1/health.
func (h *HealthHandlers) GetHealth(c *gin.Context) {
	status := "ok"
	dbStatus := "ok"
	if err := h.container.DB.Ping(); err != nil {
		status = "degraded"
		dbStatus = err.Error()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        status,
		"database":      dbStatus,
		"streamClients": h.container.Broadcaster.ClientCount(),
	})
}
