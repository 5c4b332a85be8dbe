package cleanup

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/caching/manager"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/observability/logging"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/observability/performance"
)

func TestPerformCleanupPurgesCachesAndMarkers(t *testing.T) {
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError,
		ChannelLevels:   make(map[logging.Channel]slog.Level),
	})
	require.NoError(t, err)

	cache := manager.NewManager(logger)
	cache.SetKV("stale", "v", time.Nanosecond)
	time.Sleep(2 * time.Millisecond)

	tracker := performance.NewTracker()
	marker := tracker.StartOperation("expired_op")
	marker.Complete()
	marker.EndTime = time.Now().Add(-2 * time.Hour)

	worker := NewWorker(cache, tracker, &Config{
		CleanupInterval: time.Minute,
		AnalyticsBinTTL: time.Hour,
	}, logger)

	worker.performCleanup()

	_, found := cache.GetKV("stale")
	assert.False(t, found)
	assert.Equal(t, 0, tracker.GetOverallStats()["totalMarkers"])
}
