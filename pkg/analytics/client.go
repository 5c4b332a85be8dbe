// Package analytics is the Bellyfed engagement tracking client.
//
// Every public method is best-effort: transport failures are logged and
// mapped to a safe default instead of being returned, so tracking can never
// break a user-facing flow. Reads return zero-valued shapes that render as
// "no data".
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"
)

// Default base paths for the Bellyfed analytics backend.
const (
	DefaultAnalyticsBasePath = "/api/v1/analytics"
	DefaultCacheBasePath     = "/api/v1/cache"
)

// ViewData carries impression metrics for one entity.
type ViewData struct {
	ViewCount     int `json:"viewCount"`
	UniqueViewers int `json:"uniqueViewers"`
}

// EntityAnalytics is the aggregated metrics payload for one entity.
type EntityAnalytics struct {
	ViewData       ViewData       `json:"viewData"`
	EngagementData map[string]int `json:"engagementData"`
	TimeSeriesData map[string]int `json:"timeSeriesData"`
}

// TrendingEntry is one row of a trending query result.
type TrendingEntry struct {
	EntityType      string `json:"entityType"`
	EntityID        string `json:"entityId"`
	Score           int    `json:"score"`
	ViewCount       int    `json:"viewCount"`
	EngagementCount int    `json:"engagementCount"`
}

// Config holds the explicit dependencies of a Client. Everything the
// browser original read from ambient globals is injected here instead.
type Config struct {
	// HTTPClient is the transport. Nil uses the default net/http transport
	// with DefaultTimeout.
	HTTPClient HTTPClient

	// BaseURL is the backend origin, e.g. "https://api.bellyfed.com".
	BaseURL string

	// AnalyticsBasePath and CacheBasePath override the default API paths.
	AnalyticsBasePath string
	CacheBasePath     string

	// SessionID groups events from one browser session. Read from the
	// session cookie by the caller; empty for headless callers.
	SessionID string

	// Page describes the page the client is tracking from. Nil for
	// headless callers.
	Page *PageContext

	// Logger receives the discarded errors. Nil uses slog.Default.
	Logger *slog.Logger
}

// Client tracks engagement events against the Bellyfed analytics backend.
// It is safe for concurrent use; all fields are read-only after New.
type Client struct {
	transport     HTTPClient
	analyticsBase string
	cacheBase     string
	sessionID     string
	page          *PageContext
	logger        *slog.Logger
}

// New creates a tracking client from explicit configuration.
func New(cfg Config) *Client {
	transport := cfg.HTTPClient
	if transport == nil {
		transport = NewHTTPClient(DefaultTimeout)
	}

	analyticsPath := cfg.AnalyticsBasePath
	if analyticsPath == "" {
		analyticsPath = DefaultAnalyticsBasePath
	}
	cachePath := cfg.CacheBasePath
	if cachePath == "" {
		cachePath = DefaultCacheBasePath
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		transport:     transport,
		analyticsBase: cfg.BaseURL + analyticsPath,
		cacheBase:     cfg.BaseURL + cachePath,
		sessionID:     cfg.SessionID,
		page:          cfg.Page,
		logger:        logger,
	}
}

type viewPayload struct {
	EntityType  string            `json:"entityType"`
	EntityID    string            `json:"entityId"`
	UserID      string            `json:"userId,omitempty"`
	SessionID   string            `json:"sessionId,omitempty"`
	DeviceType  string            `json:"deviceType"`
	PagePath    string            `json:"pagePath,omitempty"`
	PageTitle   string            `json:"pageTitle,omitempty"`
	QueryParams map[string]string `json:"queryParams,omitempty"`
	Timestamp   string            `json:"timestamp"`
}

type engagementPayload struct {
	EntityType     string         `json:"entityType"`
	EntityID       string         `json:"entityId"`
	EngagementType string         `json:"engagementType"`
	UserID         string         `json:"userId,omitempty"`
	SessionID      string         `json:"sessionId,omitempty"`
	DeviceType     string         `json:"deviceType"`
	PagePath       string         `json:"pagePath,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	Timestamp      string         `json:"timestamp"`
}

// TrackView records an entity impression. It never fails: transport errors
// are logged and swallowed.
func (c *Client) TrackView(ctx context.Context, entityType, entityID, userID string) {
	payload := viewPayload{
		EntityType:  entityType,
		EntityID:    entityID,
		UserID:      userID,
		SessionID:   c.sessionID,
		DeviceType:  c.page.DeviceType(),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		QueryParams: c.page.QueryParams(),
	}
	if c.page != nil {
		payload.PagePath = c.page.Path
		payload.PageTitle = c.page.Title
	}

	if _, err := c.transport.Post(ctx, c.analyticsBase+"/track-view", payload); err != nil {
		c.logger.Warn("track view failed",
			"error", err.Error(),
			"entityType", entityType,
			"entityId", entityID)
	}
}

// TrackEngagement records a user interaction with caller metadata merged
// with the captured page context. It never fails.
func (c *Client) TrackEngagement(ctx context.Context, entityType, entityID, engagementType, userID string, metadata map[string]any) {
	merged := make(map[string]any, len(metadata)+2)
	for key, value := range metadata {
		merged[key] = value
	}
	if c.page != nil {
		if c.page.Title != "" {
			merged["pageTitle"] = c.page.Title
		}
		if params := c.page.QueryParams(); len(params) > 0 {
			merged["queryParams"] = params
		}
	}

	payload := engagementPayload{
		EntityType:     entityType,
		EntityID:       entityID,
		EngagementType: engagementType,
		UserID:         userID,
		SessionID:      c.sessionID,
		DeviceType:     c.page.DeviceType(),
		Metadata:       merged,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}
	if c.page != nil {
		payload.PagePath = c.page.Path
	}

	if _, err := c.transport.Post(ctx, c.analyticsBase+"/track-engagement", payload); err != nil {
		c.logger.Warn("track engagement failed",
			"error", err.Error(),
			"entityType", entityType,
			"entityId", entityID,
			"engagementType", engagementType)
	}
}

// GetAnalytics returns aggregated metrics for one entity. On any failure it
// returns the zero-valued shape so callers render "no data" without
// special-casing errors.
func (c *Client) GetAnalytics(ctx context.Context, entityType, entityID, period string) *EntityAnalytics {
	zero := &EntityAnalytics{
		EngagementData: make(map[string]int),
		TimeSeriesData: make(map[string]int),
	}

	query := url.Values{}
	query.Set("entityType", entityType)
	query.Set("entityId", entityID)
	if period != "" {
		query.Set("period", period)
	}

	data, err := c.transport.Get(ctx, c.analyticsBase+"/get-analytics?"+query.Encode())
	if err != nil {
		c.logger.Warn("get analytics failed",
			"error", err.Error(),
			"entityType", entityType,
			"entityId", entityID)
		return zero
	}

	var result EntityAnalytics
	if err := json.Unmarshal(data, &result); err != nil {
		c.logger.Warn("get analytics returned malformed payload", "error", err.Error())
		return zero
	}
	if result.EngagementData == nil {
		result.EngagementData = make(map[string]int)
	}
	if result.TimeSeriesData == nil {
		result.TimeSeriesData = make(map[string]int)
	}
	return &result
}

// GetTrending returns the top entities of a type by engagement. On any
// failure it returns an empty slice.
func (c *Client) GetTrending(ctx context.Context, entityType string, limit int, period string) []TrendingEntry {
	query := url.Values{}
	query.Set("entityType", entityType)
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if period != "" {
		query.Set("period", period)
	}

	data, err := c.transport.Get(ctx, c.analyticsBase+"/get-trending?"+query.Encode())
	if err != nil {
		c.logger.Warn("get trending failed",
			"error", err.Error(),
			"entityType", entityType)
		return []TrendingEntry{}
	}

	var result struct {
		Trending []TrendingEntry `json:"trending"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		c.logger.Warn("get trending returned malformed payload", "error", err.Error())
		return []TrendingEntry{}
	}
	if result.Trending == nil {
		return []TrendingEntry{}
	}
	return result.Trending
}

// CacheData stores a value in the remote key-value cache. The cache is an
// optimization, so failures are logged and swallowed. A zero ttl uses the
// server default.
func (c *Client) CacheData(ctx context.Context, key string, value any, ttlSeconds int) {
	payload := map[string]any{
		"key":   key,
		"value": value,
	}
	if ttlSeconds > 0 {
		payload["ttlSeconds"] = ttlSeconds
	}

	if _, err := c.transport.Post(ctx, c.cacheBase+"/cache-data", payload); err != nil {
		c.logger.Warn("cache data failed", "error", err.Error(), "key", key)
	}
}

// GetCachedData returns the cached value for a key, or nil on a miss, a
// transport failure, or a response without a value.
func (c *Client) GetCachedData(ctx context.Context, key string) any {
	query := url.Values{}
	query.Set("key", key)

	data, err := c.transport.Get(ctx, c.cacheBase+"/get-cached-data?"+query.Encode())
	if err != nil {
		c.logger.Warn("get cached data failed", "error", err.Error(), "key", key)
		return nil
	}

	var result struct {
		Value any `json:"value"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		c.logger.Warn("get cached data returned malformed payload", "error", err.Error())
		return nil
	}
	return result.Value
}

// String implements fmt.Stringer for debug logging without leaking the
// session id.
func (c *Client) String() string {
	return fmt.Sprintf("analytics.Client(base=%s, hasSession=%t)", c.analyticsBase, c.sessionID != "")
}
