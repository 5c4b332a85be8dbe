package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ming0627/bellyfed-new-sub002/internal/application/container"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/caching/manager"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/observability/logging"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/observability/performance"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/security"
	"github.com/ming0627/bellyfed-new-sub002/pkg/config"
)

func newTestContainer(t *testing.T) *container.Container {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError,
		ChannelLevels:   make(map[logging.Channel]slog.Level),
	})
	require.NoError(t, err)

	cache := manager.NewManager(logger)
	return container.NewContainer(logger, performance.NewTracker(), nil, cache, nil)
}

func performJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestCacheDataRoundTrip(t *testing.T) {
	c := newTestContainer(t)
	cacheHandlers := NewCacheHandlers(c)

	router := gin.New()
	router.POST("/cache-data", cacheHandlers.PostCacheData)
	router.GET("/get-cached-data", cacheHandlers.GetCachedData)

	resp := performJSON(router, http.MethodPost, "/cache-data", `{"key":"popular","value":{"dish":"ramen"},"ttlSeconds":60}`)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = performJSON(router, http.MethodGet, "/get-cached-data?key=popular", "")
	assert.Equal(t, http.StatusOK, resp.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, true, body["found"])
	assert.Equal(t, map[string]any{"dish": "ramen"}, body["value"])
}

func TestGetCachedDataMissReturnsNullValue(t *testing.T) {
	c := newTestContainer(t)
	cacheHandlers := NewCacheHandlers(c)

	router := gin.New()
	router.GET("/get-cached-data", cacheHandlers.GetCachedData)

	resp := performJSON(router, http.MethodGet, "/get-cached-data?key=absent", "")
	assert.Equal(t, http.StatusOK, resp.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, false, body["found"])
	assert.Nil(t, body["value"])
}

func TestPostCacheDataRejectsMissingKey(t *testing.T) {
	c := newTestContainer(t)
	cacheHandlers := NewCacheHandlers(c)

	router := gin.New()
	router.POST("/cache-data", cacheHandlers.PostCacheData)

	resp := performJSON(router, http.MethodPost, "/cache-data", `{"value":"x"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGetAnalyticsWithoutEntityReturnsZeroShape(t *testing.T) {
	c := newTestContainer(t)
	analyticsHandlers := NewAnalyticsHandlers(c)

	router := gin.New()
	router.GET("/get-analytics", analyticsHandlers.GetAnalytics)

	resp := performJSON(router, http.MethodGet, "/get-analytics", "")
	assert.Equal(t, http.StatusOK, resp.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))

	viewData, ok := body["viewData"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(0), viewData["viewCount"])
	assert.Equal(t, float64(0), viewData["uniqueViewers"])
	assert.Equal(t, map[string]any{}, body["engagementData"])
	assert.Equal(t, map[string]any{}, body["timeSeriesData"])
}

func TestGetTrendingWithoutEntityTypeReturnsEmptyList(t *testing.T) {
	c := newTestContainer(t)
	analyticsHandlers := NewAnalyticsHandlers(c)

	router := gin.New()
	router.GET("/get-trending", analyticsHandlers.GetTrending)

	resp := performJSON(router, http.MethodGet, "/get-trending", "")
	assert.Equal(t, http.StatusOK, resp.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	trending, ok := body["trending"].([]any)
	require.True(t, ok)
	assert.Empty(t, trending)
}

func TestGetSummaryIncludesPerformanceViews(t *testing.T) {
	c := newTestContainer(t)

	marker := c.PerfTracker.StartOperation("completed_op")
	marker.SetSuccess(true)
	marker.Complete()
	c.PerfTracker.StartOperation("in_flight_op")

	analyticsHandlers := NewAnalyticsHandlers(c)
	router := gin.New()
	router.GET("/summary", analyticsHandlers.GetSummary)

	resp := performJSON(router, http.MethodGet, "/summary", "")
	assert.Equal(t, http.StatusOK, resp.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))

	perf, ok := body["performance"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, perf, "overall")
	require.Contains(t, perf, "recent")
	require.Contains(t, perf, "active")

	recent, ok := perf["recent"].([]any)
	require.True(t, ok)
	require.Len(t, recent, 1)
	active, ok := perf["active"].([]any)
	require.True(t, ok)
	require.Len(t, active, 1)
}

func TestLogin(t *testing.T) {
	hash, err := security.HashPassword("hunter2")
	require.NoError(t, err)

	origHash, origSecret := config.AdminPasswordHash, config.JWTSecret
	config.AdminPasswordHash = hash
	config.JWTSecret = "test-secret"
	t.Cleanup(func() {
		config.AdminPasswordHash = origHash
		config.JWTSecret = origSecret
	})

	c := newTestContainer(t)
	authHandlers := NewAuthHandlers(c)

	router := gin.New()
	router.POST("/login", authHandlers.PostLogin)

	resp := performJSON(router, http.MethodPost, "/login", `{"password":"hunter2"}`)
	assert.Equal(t, http.StatusOK, resp.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	token, ok := body["token"].(string)
	require.True(t, ok)

	claims, err := security.ValidateJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "dashboard-admin", claims["sub"])

	resp = performJSON(router, http.MethodPost, "/login", `{"password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
