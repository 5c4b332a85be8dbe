package analytics

import (
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/ming0627/bellyfed-new-sub002/internal/domain/analytics"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/observability/logging"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/persistence/database"
)

func newTestRepo(t *testing.T) (*SQLEventRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError,
		ChannelLevels:   make(map[logging.Channel]slog.Level),
	})
	require.NoError(t, err)

	return NewSQLEventRepository(&database.DB{DB: mockDB}, logger), mock
}

func TestStoreEvent(t *testing.T) {
	repo, mock := newTestRepo(t)

	event := &domain.EngagementEvent{
		ID:             "01J0000000000000000000TEST",
		EntityType:     domain.EntityRestaurant,
		EntityID:       "r1",
		EngagementType: domain.EngagementLike,
		UserID:         "u1",
		SessionID:      "sess-1",
		DeviceType:     domain.DeviceMobile,
		PagePath:       "/restaurants/r1",
		Metadata:       map[string]any{"source": "card"},
		CreatedAt:      time.Date(2026, 8, 31, 9, 15, 0, 0, time.UTC),
	}

	mock.ExpectExec("INSERT INTO engagement_events").
		WithArgs(
			event.ID,
			event.EntityType,
			event.EntityID,
			event.EngagementType,
			event.UserID,
			event.SessionID,
			event.DeviceType,
			event.PagePath,
			`{"source":"card"}`,
			"2026-08-31 09:15:00",
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.StoreEvent(event))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreEventNullsOptionalFields(t *testing.T) {
	repo, mock := newTestRepo(t)

	event := &domain.EngagementEvent{
		ID:             "01J0000000000000000000TST2",
		EntityType:     domain.EntityDish,
		EntityID:       "d1",
		EngagementType: domain.EngagementView,
		SessionID:      "sess-2",
		DeviceType:     domain.DeviceUnknown,
		CreatedAt:      time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC),
	}

	mock.ExpectExec("INSERT INTO engagement_events").
		WithArgs(
			event.ID,
			event.EntityType,
			event.EntityID,
			event.EngagementType,
			nil,
			event.SessionID,
			event.DeviceType,
			nil,
			nil,
			"2026-08-31 10:00:00",
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.StoreEvent(event))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindEventsForEntity(t *testing.T) {
	repo, mock := newTestRepo(t)

	columns := []string{"id", "entity_type", "entity_id", "engagement_type", "user_id", "session_id", "device_type", "page_path", "metadata", "created_at"}
	rows := sqlmock.NewRows(columns).
		AddRow("e1", "RESTAURANT", "r1", "VIEW", "u1", "sess-1", "mobile", "/restaurants/r1", `{"source":"card"}`, "2026-08-31 09:15:00").
		AddRow("e2", "RESTAURANT", "r1", "LIKE", nil, "sess-2", "desktop", nil, nil, "2026-08-31 09:45:00")

	mock.ExpectQuery("SELECT (.+) FROM engagement_events").
		WithArgs("RESTAURANT", "r1", "2026-08-31 09:00:00", "2026-08-31 10:00:00").
		WillReturnRows(rows)

	startTime := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	endTime := startTime.Add(time.Hour)

	events, err := repo.FindEventsForEntity("RESTAURANT", "r1", startTime, endTime)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "e1", events[0].ID)
	assert.Equal(t, "u1", events[0].UserID)
	assert.Equal(t, "card", events[0].Metadata["source"])
	assert.Equal(t, time.Date(2026, 8, 31, 9, 15, 0, 0, time.UTC), events[0].CreatedAt)

	assert.Equal(t, "e2", events[1].ID)
	assert.Empty(t, events[1].UserID)
	assert.Empty(t, events[1].PagePath)
	assert.Nil(t, events[1].Metadata)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountEventsInRange(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("2026-08-30 09:00:00", "2026-08-31 09:00:00").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	startTime := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	count, err := repo.CountEventsInRange(startTime, startTime.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 42, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
