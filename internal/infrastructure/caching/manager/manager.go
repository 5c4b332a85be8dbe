// Package manager provides centralized cache operations by delegating to
// specialized stores.
package manager

import (
	"time"

	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/caching/stores"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/caching/types"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/observability/logging"
	"github.com/ming0627/bellyfed-new-sub002/pkg/config"
)

// Manager provides centralized cache operations for the analytics service.
type Manager struct {
	analyticsStore *stores.AnalyticsStore
	kvStore        *stores.KVStore
	logger         *logging.ChanneledLogger
}

// NewManager wires the cache stores together.
func NewManager(logger *logging.ChanneledLogger) *Manager {
	if logger != nil {
		logger.Cache().Info("Initializing cache manager", "stores", []string{"analytics", "kv"})
	}

	return &Manager{
		analyticsStore: stores.NewAnalyticsStore(logger),
		kvStore:        stores.NewKVStore(config.KVDefaultTTL, logger),
		logger:         logger,
	}
}

// Analytics bin operations

func (m *Manager) RecordEvent(entityType, entityID, engagementType, sessionID, hourKey string) {
	m.analyticsStore.RecordEvent(entityType, entityID, engagementType, sessionID, hourKey)
}

func (m *Manager) GetHourlyBin(entityType, entityID, hourKey string) (*types.HourlyEntityBin, bool) {
	return m.analyticsStore.GetHourlyBin(entityType, entityID, hourKey)
}

func (m *Manager) SetHourlyBin(entityType, entityID, hourKey string, bin *types.HourlyEntityBin) {
	m.analyticsStore.SetHourlyBin(entityType, entityID, hourKey, bin)
}

func (m *Manager) GetBinsForEntity(entityType, entityID string, hourKeys []string) (map[string]*types.HourlyEntityBin, []string) {
	return m.analyticsStore.GetBinsForEntity(entityType, entityID, hourKeys)
}

func (m *Manager) GetBinsForType(entityType string, hourKeys []string) map[string]map[string]*types.HourlyEntityBin {
	return m.analyticsStore.GetBinsForType(entityType, hourKeys)
}

// Computed metrics operations

func (m *Manager) GetEntityMetrics(cacheKey string) (any, bool) {
	return m.analyticsStore.GetEntityMetrics(cacheKey, config.EntityMetricsTTL)
}

func (m *Manager) SetEntityMetrics(cacheKey string, payload any) {
	m.analyticsStore.SetEntityMetrics(cacheKey, payload)
}

func (m *Manager) GetTrending(cacheKey string) (any, bool) {
	return m.analyticsStore.GetTrending(cacheKey, config.TrendingTTL)
}

func (m *Manager) SetTrending(cacheKey string, payload any) {
	m.analyticsStore.SetTrending(cacheKey, payload)
}

func (m *Manager) GetLastFullHour() string {
	return m.analyticsStore.GetLastFullHour()
}

func (m *Manager) UpdateLastFullHour(hourKey string) {
	m.analyticsStore.UpdateLastFullHour(hourKey)
}

func (m *Manager) InvalidateComputed() {
	m.analyticsStore.InvalidateComputed()
}

// Key-value operations

func (m *Manager) SetKV(key string, value any, ttl time.Duration) {
	m.kvStore.Set(key, value, ttl)
}

func (m *Manager) GetKV(key string) (any, bool) {
	return m.kvStore.Get(key)
}

func (m *Manager) DeleteKV(key string) {
	m.kvStore.Delete(key)
}

// Maintenance operations

// PurgeExpired removes expired bins and KV entries, returning counts.
func (m *Manager) PurgeExpired(binTTL time.Duration) (bins, kvEntries int) {
	olderThan := time.Now().UTC().Add(-binTTL).Format("2006-01-02-15")
	bins = m.analyticsStore.PurgeExpiredBins(olderThan)
	kvEntries = m.kvStore.PurgeExpired()
	return bins, kvEntries
}

// Summary returns cache status for the dashboard status endpoint.
func (m *Manager) Summary() map[string]any {
	summary := m.analyticsStore.Summary()
	summary["kvEntries"] = m.kvStore.Len()
	return summary
}
