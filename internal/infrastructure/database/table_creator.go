// Package database provides schema management for the analytics store.
package database

import (
	"fmt"

	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/observability/logging"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/persistence/database"
)

// EnsureSchema creates the events table and its indexes if they do not exist.
func EnsureSchema(db *database.DB, logger *logging.ChanneledLogger) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS engagement_events (
			id TEXT PRIMARY KEY,
			entity_type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			engagement_type TEXT NOT NULL,
			user_id TEXT,
			session_id TEXT NOT NULL,
			device_type TEXT NOT NULL DEFAULT 'unknown',
			page_path TEXT,
			metadata TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_entity
			ON engagement_events (entity_type, entity_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_events_created_at
			ON engagement_events (created_at)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			logger.Database().Error("Schema creation failed", "error", err.Error())
			return fmt.Errorf("failed to ensure analytics schema: %w", err)
		}
	}

	logger.Database().Info("Analytics schema verified")
	return nil
}
