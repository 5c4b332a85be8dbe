// Package handlers contains the gin HTTP handlers for the analytics API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ming0627/bellyfed-new-sub002/internal/application/container"
	"github.com/ming0627/bellyfed-new-sub002/internal/application/services"
)

// TrackHandlers serves the event ingestion endpoints.
type TrackHandlers struct {
	container *container.Container
}

// NewTrackHandlers creates the handler group.
func NewTrackHandlers(c *container.Container) *TrackHandlers {
	return &TrackHandlers{container: c}
}

// PostTrackView handles POST /api/v1/analytics/track-view.
func (h *TrackHandlers) PostTrackView(c *gin.Context) {
	var req services.ViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.SessionID == "" {
		req.SessionID = c.GetHeader("X-Session-ID")
	}

	event, err := h.container.EngagementService.RecordView(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "eventId": event.ID})
}

// PostTrackEngagement handles POST /api/v1/analytics/track-engagement.
func (h *TrackHandlers) PostTrackEngagement(c *gin.Context) {
	var req services.EngagementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.SessionID == "" {
		req.SessionID = c.GetHeader("X-Session-ID")
	}

	event, err := h.container.EngagementService.RecordEngagement(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "eventId": event.ID})
}
