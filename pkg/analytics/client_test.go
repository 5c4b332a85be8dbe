package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTransport struct {
	getURLs   []string
	postURLs  []string
	postBodys []any

	getResponse  []byte
	postResponse []byte
	err          error
}

func (t *recordingTransport) Get(_ context.Context, url string) ([]byte, error) {
	t.getURLs = append(t.getURLs, url)
	if t.err != nil {
		return nil, t.err
	}
	return t.getResponse, nil
}

func (t *recordingTransport) Post(_ context.Context, url string, body any) ([]byte, error) {
	t.postURLs = append(t.postURLs, url)
	t.postBodys = append(t.postBodys, body)
	if t.err != nil {
		return nil, t.err
	}
	return t.postResponse, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(transport HTTPClient, page *PageContext) *Client {
	return New(Config{
		HTTPClient: transport,
		BaseURL:    "https://api.bellyfed.test",
		SessionID:  "sess-123",
		Page:       page,
		Logger:     quietLogger(),
	})
}

func TestTrackViewSwallowsTransportFailure(t *testing.T) {
	transport := &recordingTransport{err: errors.New("connection refused")}
	client := newTestClient(transport, nil)

	assert.NotPanics(t, func() {
		client.TrackView(context.Background(), "RESTAURANT", "r1", "u1")
	})
	assert.Len(t, transport.postURLs, 1)
}

func TestTrackEngagementPostBody(t *testing.T) {
	page, err := NewPageContextFromURL(
		"https://bellyfed.com/restaurants/r1?a=1&b=2",
		"Best Ramen in Town",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X)")
	require.NoError(t, err)

	transport := &recordingTransport{postResponse: []byte(`{"success":true}`)}
	client := newTestClient(transport, page)

	client.TrackEngagement(context.Background(), "RESTAURANT", "r1", "LIKE", "u1", map[string]any{"source": "card"})

	require.Len(t, transport.postBodys, 1)
	assert.Equal(t, "https://api.bellyfed.test/api/v1/analytics/track-engagement", transport.postURLs[0])

	raw, err := json.Marshal(transport.postBodys[0])
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.Equal(t, "RESTAURANT", body["entityType"])
	assert.Equal(t, "r1", body["entityId"])
	assert.Equal(t, "LIKE", body["engagementType"])
	assert.Equal(t, "u1", body["userId"])
	assert.Equal(t, "sess-123", body["sessionId"])
	assert.Equal(t, "mobile", body["deviceType"])
	assert.Equal(t, "/restaurants/r1", body["pagePath"])

	metadata, ok := body["metadata"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "card", metadata["source"])
	assert.Equal(t, "Best Ramen in Town", metadata["pageTitle"])
	assert.Equal(t, map[string]any{"a": "1", "b": "2"}, metadata["queryParams"])
}

func TestTrackViewCarriesPageContext(t *testing.T) {
	page, err := NewPageContextFromURL("https://x/y?a=1&b=2", "Y Page", "")
	require.NoError(t, err)

	transport := &recordingTransport{postResponse: []byte(`{"success":true}`)}
	client := newTestClient(transport, page)

	client.TrackView(context.Background(), "DISH", "d9", "")

	require.Len(t, transport.postBodys, 1)
	payload, ok := transport.postBodys[0].(viewPayload)
	require.True(t, ok)
	assert.Equal(t, "/y", payload.PagePath)
	assert.Equal(t, "Y Page", payload.PageTitle)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, payload.QueryParams)
	assert.Equal(t, DeviceUnknown, payload.DeviceType)
	assert.NotEmpty(t, payload.Timestamp)
}

func TestGetAnalyticsReturnsZeroShapeOnFailure(t *testing.T) {
	transport := &recordingTransport{err: errors.New("timeout")}
	client := newTestClient(transport, nil)

	result := client.GetAnalytics(context.Background(), "RESTAURANT", "r1", "week")

	require.NotNil(t, result)
	assert.Equal(t, 0, result.ViewData.ViewCount)
	assert.Equal(t, 0, result.ViewData.UniqueViewers)
	assert.NotNil(t, result.EngagementData)
	assert.Empty(t, result.EngagementData)
	assert.NotNil(t, result.TimeSeriesData)
	assert.Empty(t, result.TimeSeriesData)
}

func TestGetAnalyticsParsesResponse(t *testing.T) {
	transport := &recordingTransport{
		getResponse: []byte(`{
			"viewData": {"viewCount": 42, "uniqueViewers": 17},
			"engagementData": {"LIKE": 5},
			"timeSeriesData": {"2026-08-31-10": 3}
		}`),
	}
	client := newTestClient(transport, nil)

	result := client.GetAnalytics(context.Background(), "RESTAURANT", "r1", "day")

	assert.Equal(t, 42, result.ViewData.ViewCount)
	assert.Equal(t, 17, result.ViewData.UniqueViewers)
	assert.Equal(t, 5, result.EngagementData["LIKE"])
	assert.Equal(t, 3, result.TimeSeriesData["2026-08-31-10"])

	require.Len(t, transport.getURLs, 1)
	assert.Contains(t, transport.getURLs[0], "/api/v1/analytics/get-analytics?")
	assert.Contains(t, transport.getURLs[0], "entityType=RESTAURANT")
	assert.Contains(t, transport.getURLs[0], "entityId=r1")
	assert.Contains(t, transport.getURLs[0], "period=day")
}

func TestGetTrendingReturnsEmptyOnFailure(t *testing.T) {
	transport := &recordingTransport{err: errors.New("boom")}
	client := newTestClient(transport, nil)

	result := client.GetTrending(context.Background(), "RESTAURANT", 5, "week")

	require.NotNil(t, result)
	assert.Empty(t, result)
}

func TestGetTrendingParsesResponse(t *testing.T) {
	transport := &recordingTransport{
		getResponse: []byte(`{"trending": [{"entityType":"RESTAURANT","entityId":"r1","score":12,"viewCount":3,"engagementCount":3}]}`),
	}
	client := newTestClient(transport, nil)

	result := client.GetTrending(context.Background(), "RESTAURANT", 5, "")

	require.Len(t, result, 1)
	assert.Equal(t, "r1", result[0].EntityID)
	assert.Equal(t, 12, result[0].Score)
}

func TestGetCachedDataReturnsNilOnFailure(t *testing.T) {
	transport := &recordingTransport{err: errors.New("down")}
	client := newTestClient(transport, nil)

	assert.Nil(t, client.GetCachedData(context.Background(), "popular-dishes"))
}

func TestGetCachedDataReturnsNilWithoutValueField(t *testing.T) {
	transport := &recordingTransport{getResponse: []byte(`{"found": false}`)}
	client := newTestClient(transport, nil)

	assert.Nil(t, client.GetCachedData(context.Background(), "popular-dishes"))
}

func TestGetCachedDataReturnsValue(t *testing.T) {
	transport := &recordingTransport{getResponse: []byte(`{"value": {"name": "ramen"}, "found": true}`)}
	client := newTestClient(transport, nil)

	value := client.GetCachedData(context.Background(), "dish-of-the-day")
	require.NotNil(t, value)
	assert.Equal(t, map[string]any{"name": "ramen"}, value)
}

func TestCacheDataSwallowsTransportFailure(t *testing.T) {
	transport := &recordingTransport{err: errors.New("down")}
	client := newTestClient(transport, nil)

	assert.NotPanics(t, func() {
		client.CacheData(context.Background(), "k", "v", 30)
	})
	require.Len(t, transport.postURLs, 1)
	assert.Equal(t, "https://api.bellyfed.test/api/v1/cache/cache-data", transport.postURLs[0])
}
