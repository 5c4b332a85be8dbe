// Package routes registers the HTTP route tree.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/ming0627/bellyfed-new-sub002/internal/application/container"
	"github.com/ming0627/bellyfed-new-sub002/internal/presentation/http/handlers"
	"github.com/ming0627/bellyfed-new-sub002/internal/presentation/http/middleware"
)

// Register attaches all API routes to the engine.
func Register(engine *gin.Engine, c *container.Container) {
	engine.Use(middleware.CORS())

	trackHandlers := handlers.NewTrackHandlers(c)
	analyticsHandlers := handlers.NewAnalyticsHandlers(c)
	cacheHandlers := handlers.NewCacheHandlers(c)
	authHandlers := handlers.NewAuthHandlers(c)
	streamHandlers := handlers.NewStreamHandlers(c)
	healthHandlers := handlers.NewHealthHandlers(c)

	api := engine.Group("/api/v1")
	{
		api.GET("/health", healthHandlers.GetHealth)
		api.POST("/auth/login", authHandlers.PostLogin)

		analytics := api.Group("/analytics")
		{
			analytics.POST("/track-view", trackHandlers.PostTrackView)
			analytics.POST("/track-engagement", trackHandlers.PostTrackEngagement)
			analytics.GET("/get-analytics", analyticsHandlers.GetAnalytics)
			analytics.GET("/get-trending", analyticsHandlers.GetTrending)
			analytics.GET("/stream", streamHandlers.GetStream)
			analytics.GET("/summary", middleware.RequireDashboardAuth(), analyticsHandlers.GetSummary)
		}

		cache := api.Group("/cache")
		{
			cache.POST("/cache-data", cacheHandlers.PostCacheData)
			cache.GET("/get-cached-data", cacheHandlers.GetCachedData)
		}
	}
}
