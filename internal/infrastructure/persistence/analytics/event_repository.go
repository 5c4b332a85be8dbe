// Package analytics provides the concrete SQL-based implementation for
// engagement event persistence.
//
// Events are stored as they arrive; analytics computation reads from the
// cached hourly bins and only falls back here to rebuild missing hours.
package analytics

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	domain "github.com/ming0627/bellyfed-new-sub002/internal/domain/analytics"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/observability/logging"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/persistence/database"
	"github.com/ming0627/bellyfed-new-sub002/pkg/config"
)

const sqliteTimeFormat = "2006-01-02 15:04:05"

// SQLEventRepository handles engagement event persistence to the database.
type SQLEventRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLEventRepository creates a new instance of the repository.
func NewSQLEventRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLEventRepository {
	return &SQLEventRepository{
		db:     db,
		logger: logger,
	}
}

// StoreEvent saves an engagement event to the database.
func (r *SQLEventRepository) StoreEvent(event *domain.EngagementEvent) error {
	const query = `
		INSERT INTO engagement_events (id, entity_type, entity_id, engagement_type, user_id, session_id, device_type, page_path, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var metadataJSON []byte
	if len(event.Metadata) > 0 {
		var err error
		metadataJSON, err = json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal event metadata: %w", err)
		}
	}

	start := time.Now()
	r.logger.Database().Debug("Executing engagement event insert",
		"eventId", event.ID,
		"entityType", event.EntityType,
		"entityId", event.EntityID,
		"engagementType", event.EngagementType)

	_, err := r.db.Exec(
		query,
		event.ID,
		event.EntityType,
		event.EntityID,
		event.EngagementType,
		nullable(event.UserID),
		event.SessionID,
		event.DeviceType,
		nullable(event.PagePath),
		nullableBytes(metadataJSON),
		event.CreatedAt.UTC().Format(sqliteTimeFormat),
	)
	if err != nil {
		r.logger.Database().Error("Engagement event insert failed",
			"error", err.Error(),
			"eventId", event.ID,
			"entityType", event.EntityType,
			"entityId", event.EntityID)
		return fmt.Errorf("failed to store engagement event: %w", err)
	}

	duration := time.Since(start)
	r.logger.Database().Info("Engagement event insert completed",
		"eventId", event.ID,
		"entityType", event.EntityType,
		"entityId", event.EntityID,
		"engagementType", event.EngagementType,
		"duration", duration)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return nil
}

// FindEventsInRange retrieves events within a time window, used to rebuild
// hourly bins missing from cache.
func (r *SQLEventRepository) FindEventsInRange(startTime, endTime time.Time) ([]*domain.EngagementEvent, error) {
	const query = `
		SELECT id, entity_type, entity_id, engagement_type, user_id, session_id, device_type, page_path, metadata, created_at
		FROM engagement_events
		WHERE created_at >= ? AND created_at < ?
		ORDER BY created_at`

	start := time.Now()
	r.logger.Database().Debug("Loading engagement events in range",
		"startTime", startTime,
		"endTime", endTime)

	rows, err := r.db.Query(query,
		startTime.UTC().Format(sqliteTimeFormat),
		endTime.UTC().Format(sqliteTimeFormat))
	if err != nil {
		r.logger.Database().Error("Failed to query engagement events in range",
			"error", err.Error(),
			"startTime", startTime,
			"endTime", endTime)
		return nil, fmt.Errorf("failed to query engagement events: %w", err)
	}
	defer rows.Close()

	var events []*domain.EngagementEvent
	for rows.Next() {
		event, err := r.scanEvent(rows)
		if err != nil {
			// Log warning but continue
			r.logger.Database().Error("Failed to scan engagement event row", "error", err.Error())
			continue
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		r.logger.Database().Error("Row iteration error for engagement events", "error", err.Error())
		return nil, err
	}

	duration := time.Since(start)
	r.logger.Database().Info("Engagement events loaded in range",
		"startTime", startTime,
		"endTime", endTime,
		"count", len(events),
		"duration", duration)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return events, nil
}

// FindEventsForEntity retrieves events for a single entity within a time window.
func (r *SQLEventRepository) FindEventsForEntity(entityType, entityID string, startTime, endTime time.Time) ([]*domain.EngagementEvent, error) {
	const query = `
		SELECT id, entity_type, entity_id, engagement_type, user_id, session_id, device_type, page_path, metadata, created_at
		FROM engagement_events
		WHERE entity_type = ? AND entity_id = ? AND created_at >= ? AND created_at < ?
		ORDER BY created_at`

	start := time.Now()
	rows, err := r.db.Query(query,
		entityType,
		entityID,
		startTime.UTC().Format(sqliteTimeFormat),
		endTime.UTC().Format(sqliteTimeFormat))
	if err != nil {
		r.logger.Database().Error("Failed to query entity events",
			"error", err.Error(),
			"entityType", entityType,
			"entityId", entityID)
		return nil, fmt.Errorf("failed to query entity events: %w", err)
	}
	defer rows.Close()

	var events []*domain.EngagementEvent
	for rows.Next() {
		event, err := r.scanEvent(rows)
		if err != nil {
			r.logger.Database().Error("Failed to scan entity event row", "error", err.Error())
			continue
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	duration := time.Since(start)
	r.logger.Database().Info("Entity events loaded",
		"entityType", entityType,
		"entityId", entityID,
		"count", len(events),
		"duration", duration)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return events, nil
}

// CountEventsInRange returns total event count for reporting.
func (r *SQLEventRepository) CountEventsInRange(startTime, endTime time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM engagement_events WHERE created_at >= ? AND created_at < ?`

	start := time.Now()
	var count int
	err := r.db.QueryRow(query,
		startTime.UTC().Format(sqliteTimeFormat),
		endTime.UTC().Format(sqliteTimeFormat)).Scan(&count)
	if err != nil {
		r.logger.Database().Error("Failed to count engagement events", "error", err.Error(), "startTime", startTime, "endTime", endTime)
		return 0, fmt.Errorf("failed to count engagement events: %w", err)
	}

	r.logger.Database().Info("Event count completed",
		"startTime", startTime,
		"endTime", endTime,
		"count", count,
		"duration", time.Since(start))
	return count, nil
}

func (r *SQLEventRepository) scanEvent(rows *sql.Rows) (*domain.EngagementEvent, error) {
	var event domain.EngagementEvent
	var userID, pagePath, metadataJSON sql.NullString
	var createdAtStr string

	err := rows.Scan(
		&event.ID,
		&event.EntityType,
		&event.EntityID,
		&event.EngagementType,
		&userID,
		&event.SessionID,
		&event.DeviceType,
		&pagePath,
		&metadataJSON,
		&createdAtStr,
	)
	if err != nil {
		return nil, err
	}

	event.CreatedAt, err = parseTimestamp(createdAtStr)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		event.UserID = userID.String
	}
	if pagePath.Valid {
		event.PagePath = pagePath.String
	}
	if metadataJSON.Valid && metadataJSON.String != "" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &event.Metadata); err != nil {
			r.logger.Database().Error("Failed to unmarshal event metadata", "error", err.Error(), "eventId", event.ID)
		}
	}

	return &event, nil
}

// parseTimestamp handles multiple timestamp formats
func parseTimestamp(timestampStr string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, timestampStr); err == nil {
		return t, nil
	}
	if t, err := time.Parse(sqliteTimeFormat, timestampStr); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05.000Z", timestampStr); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp format: %s", timestampStr)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
