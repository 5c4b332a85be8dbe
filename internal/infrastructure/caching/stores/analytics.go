// Package stores provides concrete cache store implementations
package stores

import (
	"time"

	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/caching/types"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/observability/logging"
)

// AnalyticsStore implements hourly bin and computed metrics caching.
type AnalyticsStore struct {
	cache  *types.AnalyticsCache
	logger *logging.ChanneledLogger
}

// NewAnalyticsStore creates a new analytics cache store
func NewAnalyticsStore(logger *logging.ChanneledLogger) *AnalyticsStore {
	if logger != nil {
		logger.Cache().Info("Initializing analytics cache store")
	}
	return &AnalyticsStore{
		cache: &types.AnalyticsCache{
			Bins:          make(map[types.BinKey]*types.HourlyEntityBin),
			EntityMetrics: make(map[string]*types.EntityMetricsCache),
			Trending:      make(map[string]*types.TrendingCache),
			LastUpdated:   time.Now().UTC(),
		},
		logger: logger,
	}
}

func binKey(entityType, entityID, hourKey string) types.BinKey {
	return types.BinKey{EntityType: entityType, EntityID: entityID, HourKey: hourKey}
}

// GetHourlyBin retrieves an hourly bin for an entity.
func (as *AnalyticsStore) GetHourlyBin(entityType, entityID, hourKey string) (*types.HourlyEntityBin, bool) {
	as.cache.Mu.RLock()
	defer as.cache.Mu.RUnlock()

	bin, exists := as.cache.Bins[binKey(entityType, entityID, hourKey)]
	return bin, exists
}

// RecordEvent folds an event into the entity's bin for the given hour.
func (as *AnalyticsStore) RecordEvent(entityType, entityID, engagementType, sessionID, hourKey string) {
	as.cache.Mu.Lock()
	defer as.cache.Mu.Unlock()

	key := binKey(entityType, entityID, hourKey)
	bin, exists := as.cache.Bins[key]
	if !exists {
		bin = types.NewHourlyEntityBin()
		as.cache.Bins[key] = bin
	}

	bin.EventCounts[engagementType]++
	if sessionID != "" {
		bin.SessionIDs[sessionID] = struct{}{}
	}
	bin.UpdatedAt = time.Now().UTC()
	as.cache.LastUpdated = bin.UpdatedAt
}

// SetHourlyBin stores a fully-built bin, used when backfilling from the database.
func (as *AnalyticsStore) SetHourlyBin(entityType, entityID, hourKey string, bin *types.HourlyEntityBin) {
	as.cache.Mu.Lock()
	defer as.cache.Mu.Unlock()

	as.cache.Bins[binKey(entityType, entityID, hourKey)] = bin
	as.cache.LastUpdated = time.Now().UTC()
}

// GetBinsForEntity returns the entity's bins for the requested hour keys and
// the hour keys that were missing from cache.
func (as *AnalyticsStore) GetBinsForEntity(entityType, entityID string, hourKeys []string) (map[string]*types.HourlyEntityBin, []string) {
	as.cache.Mu.RLock()
	defer as.cache.Mu.RUnlock()

	found := make(map[string]*types.HourlyEntityBin)
	missing := make([]string, 0)
	for _, hourKey := range hourKeys {
		if bin, exists := as.cache.Bins[binKey(entityType, entityID, hourKey)]; exists {
			found[hourKey] = bin
		} else {
			missing = append(missing, hourKey)
		}
	}
	return found, missing
}

// GetBinsForType returns all bins of a given entity type within the hour keys,
// grouped by entity id.
func (as *AnalyticsStore) GetBinsForType(entityType string, hourKeys []string) map[string]map[string]*types.HourlyEntityBin {
	hourSet := make(map[string]struct{}, len(hourKeys))
	for _, hk := range hourKeys {
		hourSet[hk] = struct{}{}
	}

	as.cache.Mu.RLock()
	defer as.cache.Mu.RUnlock()

	result := make(map[string]map[string]*types.HourlyEntityBin)
	for key, bin := range as.cache.Bins {
		if key.EntityType != entityType {
			continue
		}
		if _, wanted := hourSet[key.HourKey]; !wanted {
			continue
		}
		if result[key.EntityID] == nil {
			result[key.EntityID] = make(map[string]*types.HourlyEntityBin)
		}
		result[key.EntityID][key.HourKey] = bin
	}
	return result
}

// GetEntityMetrics retrieves cached computed metrics if still fresh.
func (as *AnalyticsStore) GetEntityMetrics(cacheKey string, ttl time.Duration) (any, bool) {
	as.cache.Mu.RLock()
	defer as.cache.Mu.RUnlock()

	cached, exists := as.cache.EntityMetrics[cacheKey]
	if !exists || time.Since(cached.LastComputed) > ttl {
		return nil, false
	}
	return cached.Payload, true
}

// SetEntityMetrics stores computed per-entity metrics.
func (as *AnalyticsStore) SetEntityMetrics(cacheKey string, payload any) {
	as.cache.Mu.Lock()
	defer as.cache.Mu.Unlock()

	as.cache.EntityMetrics[cacheKey] = &types.EntityMetricsCache{
		Payload:      payload,
		LastComputed: time.Now().UTC(),
	}
	as.cache.LastUpdated = time.Now().UTC()
}

// GetTrending retrieves a cached trending list if still fresh.
func (as *AnalyticsStore) GetTrending(cacheKey string, ttl time.Duration) (any, bool) {
	as.cache.Mu.RLock()
	defer as.cache.Mu.RUnlock()

	cached, exists := as.cache.Trending[cacheKey]
	if !exists || time.Since(cached.LastComputed) > ttl {
		return nil, false
	}
	return cached.Payload, true
}

// SetTrending stores a computed trending list.
func (as *AnalyticsStore) SetTrending(cacheKey string, payload any) {
	as.cache.Mu.Lock()
	defer as.cache.Mu.Unlock()

	as.cache.Trending[cacheKey] = &types.TrendingCache{
		Payload:      payload,
		LastComputed: time.Now().UTC(),
	}
	as.cache.LastUpdated = time.Now().UTC()
}

// GetLastFullHour retrieves the last hour backfilled from the database.
func (as *AnalyticsStore) GetLastFullHour() string {
	as.cache.Mu.RLock()
	defer as.cache.Mu.RUnlock()
	return as.cache.LastFullHour
}

// UpdateLastFullHour records the last hour backfilled from the database.
func (as *AnalyticsStore) UpdateLastFullHour(hourKey string) {
	as.cache.Mu.Lock()
	defer as.cache.Mu.Unlock()
	as.cache.LastFullHour = hourKey
	as.cache.LastUpdated = time.Now().UTC()
}

// PurgeExpiredBins removes hourly bins whose hour key sorts before olderThan.
// Hour keys are zero-padded so lexical order matches chronological order.
func (as *AnalyticsStore) PurgeExpiredBins(olderThan string) int {
	as.cache.Mu.Lock()
	defer as.cache.Mu.Unlock()

	purged := 0
	for key := range as.cache.Bins {
		if key.HourKey < olderThan {
			delete(as.cache.Bins, key)
			purged++
		}
	}
	if purged > 0 {
		as.cache.LastUpdated = time.Now().UTC()
	}
	return purged
}

// InvalidateComputed clears computed metrics but keeps raw hourly bins.
func (as *AnalyticsStore) InvalidateComputed() {
	as.cache.Mu.Lock()
	defer as.cache.Mu.Unlock()

	as.cache.EntityMetrics = make(map[string]*types.EntityMetricsCache)
	as.cache.Trending = make(map[string]*types.TrendingCache)
	as.cache.LastUpdated = time.Now().UTC()
}

// Summary returns cache status for debugging and the status endpoint.
func (as *AnalyticsStore) Summary() map[string]any {
	as.cache.Mu.RLock()
	defer as.cache.Mu.RUnlock()

	return map[string]any{
		"bins":            len(as.cache.Bins),
		"computedEntries": len(as.cache.EntityMetrics),
		"trendingEntries": len(as.cache.Trending),
		"lastFullHour":    as.cache.LastFullHour,
		"lastUpdated":     as.cache.LastUpdated,
	}
}
