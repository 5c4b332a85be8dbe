package analytics

import "time"

// Period identifies the aggregation window for analytics queries.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod maps a query string onto a known period, falling back to week.
func ParsePeriod(s string) Period {
	switch Period(s) {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return Period(s)
	default:
		return PeriodWeek
	}
}

// Hours returns the number of hourly bins the period spans.
func (p Period) Hours() int {
	switch p {
	case PeriodDay:
		return 24
	case PeriodMonth:
		return 720
	default:
		return 168
	}
}

// ViewData carries impression metrics for a single entity.
type ViewData struct {
	ViewCount     int `json:"viewCount"`
	UniqueViewers int `json:"uniqueViewers"`
}

// EntityAnalytics is the aggregated metrics payload for one entity.
// Callers must always receive this shape, zero-valued on failure, so
// "no data" renders without special-casing errors.
type EntityAnalytics struct {
	ViewData       ViewData       `json:"viewData"`
	EngagementData map[string]int `json:"engagementData"`
	TimeSeriesData map[string]int `json:"timeSeriesData"`
}

// ZeroEntityAnalytics returns the documented zero-valued default shape.
func ZeroEntityAnalytics() *EntityAnalytics {
	return &EntityAnalytics{
		ViewData:       ViewData{},
		EngagementData: make(map[string]int),
		TimeSeriesData: make(map[string]int),
	}
}

// TrendingEntry is one row of a top-N-by-engagement query.
type TrendingEntry struct {
	EntityType      string `json:"entityType"`
	EntityID        string `json:"entityId"`
	Score           int    `json:"score"`
	ViewCount       int    `json:"viewCount"`
	EngagementCount int    `json:"engagementCount"`
}

// HourKey formats a timestamp as the hourly bin key.
func HourKey(t time.Time) string {
	return t.UTC().Format("2006-01-02-15")
}

// HourKeysForRange returns bin keys for the last hoursBack hours, newest first.
func HourKeysForRange(now time.Time, hoursBack int) []string {
	keys := make([]string, hoursBack)
	now = now.UTC()
	for i := 0; i < hoursBack; i++ {
		keys[i] = now.Add(-time.Duration(i) * time.Hour).Format("2006-01-02-15")
	}
	return keys
}
