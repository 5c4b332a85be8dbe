package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/ming0627/bellyfed-new-sub002/internal/application/container"
)

// StreamHandlers serves the live activity websocket.
type StreamHandlers struct {
	container *container.Container
}

// NewStreamHandlers creates the handler group.
func NewStreamHandlers(c *container.Container) *StreamHandlers {
	return &StreamHandlers{container: c}
}

// GetStream handles GET /api/v1/analytics/stream by upgrading to a websocket.
func (h *StreamHandlers) GetStream(c *gin.Context) {
	if err := h.container.Broadcaster.HandleConnection(c.Writer, c.Request); err != nil {
		// Upgrade failures already wrote a response.
		return
	}
}
