package services

import (
	"fmt"
	"sort"
	"sync"
	"time"

	domain "github.com/ming0627/bellyfed-new-sub002/internal/domain/analytics"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/caching/manager"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/caching/types"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/observability/logging"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/observability/performance"
	"github.com/ming0627/bellyfed-new-sub002/pkg/config"
)

// QueryRepository is the read-side persistence dependency of the query service.
type QueryRepository interface {
	FindEventsInRange(startTime, endTime time.Time) ([]*domain.EngagementEvent, error)
	FindEventsForEntity(entityType, entityID string, startTime, endTime time.Time) ([]*domain.EngagementEvent, error)
}

// QueryService computes per-entity analytics and trending rankings from the
// hourly bin cache, rebuilding missing bins from the event store.
type QueryService struct {
	repo        QueryRepository
	cache       *manager.Manager
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker

	// Warm-up watermark: the hour and window start the bin cache was last
	// replayed for. A wider window than warmedFrom forces a re-warm even
	// within the same hour.
	warmMu     sync.Mutex
	warmedHour string
	warmedFrom time.Time
}

// NewQueryService creates the service with injected dependencies.
func NewQueryService(repo QueryRepository, cache *manager.Manager, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *QueryService {
	return &QueryService{
		repo:        repo,
		cache:       cache,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetEntityAnalytics returns aggregated view and engagement metrics for one
// entity over the given period.
func (s *QueryService) GetEntityAnalytics(entityType, entityID string, period domain.Period) (*domain.EntityAnalytics, error) {
	start := time.Now()
	marker := s.perfTracker.StartOperation("get_entity_analytics")
	defer marker.Complete()

	cacheKey := fmt.Sprintf("metrics:%s:%s:%s", entityType, entityID, period)
	if cached, found := s.cache.GetEntityMetrics(cacheKey); found {
		if analytics, ok := cached.(*domain.EntityAnalytics); ok {
			marker.SetSuccess(true)
			s.logger.Analytics().Debug("Entity analytics served from cache",
				"entityType", entityType,
				"entityId", entityID,
				"period", string(period))
			return analytics, nil
		}
	}

	now := time.Now().UTC()
	hourKeys := domain.HourKeysForRange(now, period.Hours())

	bins, missing := s.cache.GetBinsForEntity(entityType, entityID, hourKeys)
	if len(missing) > 0 {
		rebuilt, err := s.rebuildEntityBins(entityType, entityID, missing)
		if err != nil {
			marker.SetSuccess(false)
			return nil, err
		}
		for hourKey, bin := range rebuilt {
			bins[hourKey] = bin
		}
	}

	analytics := aggregateBins(bins)
	s.cache.SetEntityMetrics(cacheKey, analytics)

	marker.SetSuccess(true)
	s.logger.Analytics().Info("Entity analytics computed",
		"entityType", entityType,
		"entityId", entityID,
		"period", string(period),
		"viewCount", analytics.ViewData.ViewCount,
		"hourBins", len(bins),
		"duration", time.Since(start))
	return analytics, nil
}

// GetTrending returns the top entities of a type ranked by weighted score
// over the given period.
func (s *QueryService) GetTrending(entityType string, period domain.Period, limit int) ([]*domain.TrendingEntry, error) {
	start := time.Now()
	marker := s.perfTracker.StartOperation("get_trending")
	defer marker.Complete()

	if limit <= 0 {
		limit = config.TrendingDefaultLimit
	}
	if limit > config.TrendingMaxLimit {
		limit = config.TrendingMaxLimit
	}

	cacheKey := fmt.Sprintf("trending:%s:%s:%d", entityType, period, limit)
	if cached, found := s.cache.GetTrending(cacheKey); found {
		if entries, ok := cached.([]*domain.TrendingEntry); ok {
			marker.SetSuccess(true)
			s.logger.Analytics().Debug("Trending served from cache",
				"entityType", entityType,
				"period", string(period))
			return entries, nil
		}
	}

	now := time.Now().UTC()
	hourKeys := domain.HourKeysForRange(now, period.Hours())

	// The prefix scan only sees entities already in cache. Warm the bins for
	// the full window from the store before ranking so restarted instances
	// still rank everything.
	if err := s.warmBinsForRange(now, period.Hours()); err != nil {
		marker.SetSuccess(false)
		return nil, err
	}

	byEntity := s.cache.GetBinsForType(entityType, hourKeys)

	entries := make([]*domain.TrendingEntry, 0, len(byEntity))
	for entityID, bins := range byEntity {
		entry := &domain.TrendingEntry{
			EntityType: entityType,
			EntityID:   entityID,
		}
		for _, bin := range bins {
			for engagementType, count := range bin.EventCounts {
				if engagementType == domain.EngagementView {
					entry.ViewCount += count
				} else {
					entry.EngagementCount += count
				}
			}
		}
		entry.Score = entry.ViewCount + entry.EngagementCount*config.EngagementWeight
		if entry.Score > 0 {
			entries = append(entries, entry)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].EntityID < entries[j].EntityID
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}

	s.cache.SetTrending(cacheKey, entries)

	marker.SetSuccess(true)
	s.logger.Analytics().Info("Trending computed",
		"entityType", entityType,
		"period", string(period),
		"entries", len(entries),
		"duration", time.Since(start))
	return entries, nil
}

// TopEntitiesAcrossTypes ranks every entity regardless of type, used by the
// digest report.
func (s *QueryService) TopEntitiesAcrossTypes(period domain.Period, limit int) ([]*domain.TrendingEntry, error) {
	entityTypes := []string{
		domain.EntityRestaurant,
		domain.EntityDish,
		domain.EntityUser,
		domain.EntityReview,
		domain.EntityRanking,
		domain.EntityPost,
	}

	var all []*domain.TrendingEntry
	for _, entityType := range entityTypes {
		entries, err := s.GetTrending(entityType, period, limit)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Score != all[j].Score {
			return all[i].Score > all[j].Score
		}
		return all[i].EntityID < all[j].EntityID
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// rebuildEntityBins reloads missing hour bins for one entity from the event
// store and writes them back to cache. Hours with no events get an empty bin
// so the next query does not hit the database again.
func (s *QueryService) rebuildEntityBins(entityType, entityID string, hourKeys []string) (map[string]*types.HourlyEntityBin, error) {
	startTime, endTime, err := rangeForHourKeys(hourKeys)
	if err != nil {
		return nil, err
	}

	events, err := s.repo.FindEventsForEntity(entityType, entityID, startTime, endTime)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild hourly bins: %w", err)
	}

	rebuilt := make(map[string]*types.HourlyEntityBin, len(hourKeys))
	for _, hourKey := range hourKeys {
		rebuilt[hourKey] = types.NewHourlyEntityBin()
	}
	for _, event := range events {
		hourKey := domain.HourKey(event.CreatedAt)
		bin, exists := rebuilt[hourKey]
		if !exists {
			continue
		}
		bin.EventCounts[event.EngagementType]++
		if event.SessionID != "" {
			bin.SessionIDs[event.SessionID] = struct{}{}
		}
	}

	for hourKey, bin := range rebuilt {
		s.cache.SetHourlyBin(entityType, entityID, hourKey, bin)
	}

	s.logger.Analytics().Info("Rebuilt hourly bins from event store",
		"entityType", entityType,
		"entityId", entityID,
		"hours", len(hourKeys),
		"events", len(events))
	return rebuilt, nil
}

// warmBinsForRange makes sure the bin cache covers the full query window by
// replaying the event store. The replay is skipped only when the cache was
// already warmed this hour for a window at least as wide; hours whose bins
// exist are skipped during the replay so live counts are never doubled.
func (s *QueryService) warmBinsForRange(now time.Time, hoursBack int) error {
	windowStart := now.Add(-time.Duration(hoursBack) * time.Hour).Truncate(time.Hour)
	currentHour := domain.HourKey(now)

	s.warmMu.Lock()
	defer s.warmMu.Unlock()

	if s.warmedHour == currentHour && !s.warmedFrom.After(windowStart) {
		return nil
	}

	events, err := s.repo.FindEventsInRange(windowStart, now)
	if err != nil {
		return fmt.Errorf("failed to warm hourly bins: %w", err)
	}

	for _, event := range events {
		hourKey := domain.HourKey(event.CreatedAt)
		if _, found := s.cache.GetHourlyBin(event.EntityType, event.EntityID, hourKey); found {
			continue
		}
		s.cache.RecordEvent(event.EntityType, event.EntityID, event.EngagementType, event.SessionID, hourKey)
	}

	s.warmedHour = currentHour
	s.warmedFrom = windowStart
	s.cache.UpdateLastFullHour(currentHour)

	s.logger.Analytics().Info("Warmed hourly bins from event store",
		"windowStart", windowStart,
		"events", len(events))
	return nil
}

func aggregateBins(bins map[string]*types.HourlyEntityBin) *domain.EntityAnalytics {
	analytics := domain.ZeroEntityAnalytics()

	uniqueSessions := make(map[string]struct{})
	for hourKey, bin := range bins {
		hourTotal := 0
		for engagementType, count := range bin.EventCounts {
			hourTotal += count
			if engagementType == domain.EngagementView {
				analytics.ViewData.ViewCount += count
			} else {
				analytics.EngagementData[engagementType] += count
			}
		}
		if hourTotal > 0 {
			analytics.TimeSeriesData[hourKey] = hourTotal
		}
		for sessionID := range bin.SessionIDs {
			uniqueSessions[sessionID] = struct{}{}
		}
	}
	analytics.ViewData.UniqueViewers = len(uniqueSessions)

	return analytics
}

// rangeForHourKeys converts a sorted-or-unsorted set of hour keys into the
// half-open time range covering them all.
func rangeForHourKeys(hourKeys []string) (time.Time, time.Time, error) {
	if len(hourKeys) == 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("no hour keys provided")
	}

	minKey, maxKey := hourKeys[0], hourKeys[0]
	for _, key := range hourKeys[1:] {
		if key < minKey {
			minKey = key
		}
		if key > maxKey {
			maxKey = key
		}
	}

	startTime, err := time.Parse("2006-01-02-15", minKey)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid hour key %q: %w", minKey, err)
	}
	endTime, err := time.Parse("2006-01-02-15", maxKey)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid hour key %q: %w", maxKey, err)
	}
	return startTime, endTime.Add(time.Hour), nil
}
