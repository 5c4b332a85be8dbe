// Package cleanup provides the background cache maintenance worker.
package cleanup

import (
	"context"
	"time"

	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/caching/manager"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/observability/logging"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/observability/performance"
)

// Worker handles background cache and tracker cleanup operations
type Worker struct {
	cache       *manager.Manager
	perfTracker *performance.Tracker
	config      *Config
	logger      *logging.ChanneledLogger
}

// NewWorker creates a new cleanup worker with injected configuration
func NewWorker(cache *manager.Manager, perfTracker *performance.Tracker, config *Config, logger *logging.ChanneledLogger) *Worker {
	return &Worker{
		cache:       cache,
		perfTracker: perfTracker,
		config:      config,
		logger:      logger,
	}
}

// Start begins the cleanup worker routine, using the configured interval
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.config.CleanupInterval)
	defer ticker.Stop()

	w.logger.Cache().Info("Cache cleanup worker started", "interval", w.config.CleanupInterval)

	for {
		select {
		case <-ctx.Done():
			w.logger.Cache().Info("Cache cleanup worker stopping")
			return
		case <-ticker.C:
			w.performCleanup()
		}
	}
}

func (w *Worker) performCleanup() {
	start := time.Now()

	bins, kvEntries := w.cache.PurgeExpired(w.config.AnalyticsBinTTL)
	w.perfTracker.Cleanup()

	if bins > 0 || kvEntries > 0 {
		w.logger.Cache().Info("Cache cleanup finished",
			"purgedBins", bins,
			"purgedKVEntries", kvEntries,
			"duration", time.Since(start))
	} else {
		w.logger.Cache().Debug("Cache cleanup completed - no expired items found",
			"duration", time.Since(start))
	}
}
