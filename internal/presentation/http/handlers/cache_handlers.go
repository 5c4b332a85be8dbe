package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ming0627/bellyfed-new-sub002/internal/application/container"
)

// CacheHandlers serves the shared key-value cache endpoints.
type CacheHandlers struct {
	container *container.Container
}

// NewCacheHandlers creates the handler group.
func NewCacheHandlers(c *container.Container) *CacheHandlers {
	return &CacheHandlers{container: c}
}

type cacheDataRequest struct {
	Key        string `json:"key" binding:"required"`
	Value      any    `json:"value"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// PostCacheData handles POST /api/v1/cache/cache-data.
func (h *CacheHandlers) PostCacheData(c *gin.Context) {
	var req cacheDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.container.KVService.Set(req.Key, req.Value, req.TTLSeconds)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetCachedData handles GET /api/v1/cache/get-cached-data.
// A miss returns 200 with a null value so clients treat it as "not cached".
func (h *CacheHandlers) GetCachedData(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusOK, gin.H{"value": nil, "found": false})
		return
	}

	value, found := h.container.KVService.Get(key)
	if !found {
		c.JSON(http.StatusOK, gin.H{"value": nil, "found": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"value": value, "found": true})
}
