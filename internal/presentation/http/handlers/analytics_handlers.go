package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ming0627/bellyfed-new-sub002/internal/application/container"
	domain "github.com/ming0627/bellyfed-new-sub002/internal/domain/analytics"
)

// AnalyticsHandlers serves the analytics query endpoints.
type AnalyticsHandlers struct {
	container *container.Container
}

// NewAnalyticsHandlers creates the handler group.
func NewAnalyticsHandlers(c *container.Container) *AnalyticsHandlers {
	return &AnalyticsHandlers{container: c}
}

// GetAnalytics handles GET /api/v1/analytics/get-analytics.
// Failures still return 200 with the zero-valued shape so clients render
// "no data" instead of an error state.
func (h *AnalyticsHandlers) GetAnalytics(c *gin.Context) {
	entityType := c.Query("entityType")
	entityID := c.Query("entityId")
	period := domain.ParsePeriod(c.Query("period"))

	if entityType == "" || entityID == "" {
		c.JSON(http.StatusOK, domain.ZeroEntityAnalytics())
		return
	}

	analytics, err := h.container.QueryService.GetEntityAnalytics(entityType, entityID, period)
	if err != nil {
		h.container.Logger.Analytics().Error("Analytics query failed",
			"error", err.Error(),
			"entityType", entityType,
			"entityId", entityID)
		c.JSON(http.StatusOK, domain.ZeroEntityAnalytics())
		return
	}

	c.JSON(http.StatusOK, analytics)
}

// GetTrending handles GET /api/v1/analytics/get-trending.
// Failures return an empty list rather than an error payload.
func (h *AnalyticsHandlers) GetTrending(c *gin.Context) {
	entityType := c.Query("entityType")
	period := domain.ParsePeriod(c.Query("period"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	if entityType == "" {
		c.JSON(http.StatusOK, gin.H{"trending": []*domain.TrendingEntry{}})
		return
	}

	entries, err := h.container.QueryService.GetTrending(entityType, period, limit)
	if err != nil {
		h.container.Logger.Analytics().Error("Trending query failed",
			"error", err.Error(),
			"entityType", entityType)
		c.JSON(http.StatusOK, gin.H{"trending": []*domain.TrendingEntry{}})
		return
	}
	if entries == nil {
		entries = []*domain.TrendingEntry{}
	}

	c.JSON(http.StatusOK, gin.H{"trending": entries})
}

// GetSummary handles GET /api/v1/analytics/summary (dashboard only).
func (h *AnalyticsHandlers) GetSummary(c *gin.Context) {
	summary := h.container.Cache.Summary()
	summary["streamClients"] = h.container.Broadcaster.ClientCount()
	summary["performance"] = gin.H{
		"overall": h.container.PerfTracker.GetOverallStats(),
		"recent":  h.container.PerfTracker.GetRecentMetrics(5 * time.Minute),
		"active":  h.container.PerfTracker.GetActiveOperations(),
	}
	c.JSON(http.StatusOK, summary)
}
