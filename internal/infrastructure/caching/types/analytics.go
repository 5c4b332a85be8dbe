// Package types defines the cache data structures for the analytics service.
package types

import (
	"sync"
	"time"
)

// HourlyEntityBin accumulates one hour of events for a single entity.
type HourlyEntityBin struct {
	EventCounts map[string]int      `json:"eventCounts"` // engagement type -> count
	SessionIDs  map[string]struct{} `json:"sessionIds"`  // distinct sessions seen this hour
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// NewHourlyEntityBin creates an empty bin.
func NewHourlyEntityBin() *HourlyEntityBin {
	return &HourlyEntityBin{
		EventCounts: make(map[string]int),
		SessionIDs:  make(map[string]struct{}),
		UpdatedAt:   time.Now().UTC(),
	}
}

// EntityMetricsCache holds computed per-entity analytics with a TTL.
type EntityMetricsCache struct {
	Payload      any       `json:"payload"`
	LastComputed time.Time `json:"lastComputed"`
}

// TrendingCache holds a computed trending list with a TTL.
type TrendingCache struct {
	Payload      any       `json:"payload"`
	LastComputed time.Time `json:"lastComputed"`
}

// BinKey addresses one hourly bin. A struct key keeps entity ids opaque;
// no separator character needs to be reserved.
type BinKey struct {
	EntityType string
	EntityID   string
	HourKey    string
}

// AnalyticsCache is the in-memory analytics state for the site.
// Computed caches are keyed by their query parameters.
type AnalyticsCache struct {
	Bins          map[BinKey]*HourlyEntityBin
	EntityMetrics map[string]*EntityMetricsCache
	Trending      map[string]*TrendingCache
	LastFullHour  string
	LastUpdated   time.Time
	Mu            sync.RWMutex
}

// KVEntry is one remote-cache value with optional expiry.
type KVEntry struct {
	Value     any       `json:"value"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the entry's TTL has elapsed.
func (e *KVEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}
