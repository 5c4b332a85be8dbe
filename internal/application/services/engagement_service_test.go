package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/ming0627/bellyfed-new-sub002/internal/domain/analytics"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/caching/manager"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/messaging"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/observability/performance"
)

type fakeEventRepo struct {
	stored []*domain.EngagementEvent
	err    error
}

func (f *fakeEventRepo) StoreEvent(event *domain.EngagementEvent) error {
	if f.err != nil {
		return f.err
	}
	f.stored = append(f.stored, event)
	return nil
}

func newTestEngagementService(t *testing.T, repo *fakeEventRepo) (*EngagementService, *manager.Manager) {
	t.Helper()
	logger := testLogger(t)
	cache := manager.NewManager(logger)
	broadcaster := messaging.NewActivityBroadcaster(logger)
	return NewEngagementService(repo, cache, broadcaster, logger, performance.NewTracker()), cache
}

func TestRecordViewPersistsAndBins(t *testing.T) {
	repo := &fakeEventRepo{}
	svc, cache := newTestEngagementService(t, repo)

	event, err := svc.RecordView(&ViewRequest{
		EntityType:  "RESTAURANT",
		EntityID:    "r1",
		UserID:      "u1",
		SessionID:   "sess-1",
		DeviceType:  "mobile",
		PagePath:    "/restaurants/r1",
		PageTitle:   "Best Ramen",
		QueryParams: map[string]string{"tab": "menu"},
	})
	require.NoError(t, err)

	require.Len(t, repo.stored, 1)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, domain.EngagementView, event.EngagementType)
	assert.Equal(t, "mobile", event.DeviceType)
	assert.Equal(t, "Best Ramen", event.Metadata["pageTitle"])

	bin, found := cache.GetHourlyBin("RESTAURANT", "r1", domain.HourKey(event.CreatedAt))
	require.True(t, found)
	assert.Equal(t, 1, bin.EventCounts[domain.EngagementView])
	assert.Contains(t, bin.SessionIDs, "sess-1")
}

func TestRecordEngagementValidates(t *testing.T) {
	repo := &fakeEventRepo{}
	svc, _ := newTestEngagementService(t, repo)

	_, err := svc.RecordEngagement(&EngagementRequest{
		EntityID:       "r1",
		EngagementType: "LIKE",
	})
	assert.ErrorIs(t, err, domain.ErrMissingEntityType)
	assert.Empty(t, repo.stored)
}

func TestRecordEngagementNormalizesDevice(t *testing.T) {
	repo := &fakeEventRepo{}
	svc, _ := newTestEngagementService(t, repo)

	event, err := svc.RecordEngagement(&EngagementRequest{
		EntityType:     "DISH",
		EntityID:       "d1",
		EngagementType: "SAVE",
		DeviceType:     "toaster",
		SessionID:      "sess-9",
		Metadata:       map[string]any{"source": "card"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DeviceUnknown, event.DeviceType)
	assert.Equal(t, "card", event.Metadata["source"])
}

func TestRecordEngagementPropagatesStoreFailure(t *testing.T) {
	repo := &fakeEventRepo{err: errors.New("disk full")}
	svc, cache := newTestEngagementService(t, repo)

	_, err := svc.RecordEngagement(&EngagementRequest{
		EntityType:     "RESTAURANT",
		EntityID:       "r1",
		EngagementType: "LIKE",
		SessionID:      "sess-1",
	})
	require.Error(t, err)

	// Failed events must not leak into the live bins.
	_, found := cache.GetHourlyBin("RESTAURANT", "r1", domain.HourKey(parseEventTimestamp("")))
	assert.False(t, found)
}

func TestParseEventTimestamp(t *testing.T) {
	parsed := parseEventTimestamp("2026-08-31T09:15:00Z")
	assert.Equal(t, 2026, parsed.Year())
	assert.Equal(t, 9, parsed.Hour())

	fallback := parseEventTimestamp("not-a-timestamp")
	assert.False(t, fallback.IsZero())
}
