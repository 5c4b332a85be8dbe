// Package services contains the stateless application services wired by the
// dependency injection container.
package services

import (
	"time"

	domain "github.com/ming0627/bellyfed-new-sub002/internal/domain/analytics"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/caching/manager"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/messaging"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/observability/logging"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/observability/performance"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/security"
)

// EventRepository is the persistence dependency of the engagement service.
type EventRepository interface {
	StoreEvent(event *domain.EngagementEvent) error
}

// EngagementService validates and records incoming engagement events.
type EngagementService struct {
	repo        EventRepository
	cache       *manager.Manager
	broadcaster *messaging.ActivityBroadcaster
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewEngagementService creates the service with injected dependencies.
func NewEngagementService(repo EventRepository, cache *manager.Manager, broadcaster *messaging.ActivityBroadcaster, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *EngagementService {
	return &EngagementService{
		repo:        repo,
		cache:       cache,
		broadcaster: broadcaster,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// ViewRequest is the inbound payload of a track-view call.
type ViewRequest struct {
	EntityType  string            `json:"entityType" binding:"required"`
	EntityID    string            `json:"entityId" binding:"required"`
	UserID      string            `json:"userId"`
	SessionID   string            `json:"sessionId"`
	DeviceType  string            `json:"deviceType"`
	PagePath    string            `json:"pagePath"`
	PageTitle   string            `json:"pageTitle"`
	QueryParams map[string]string `json:"queryParams"`
	Timestamp   string            `json:"timestamp"`
}

// EngagementRequest is the inbound payload of a track-engagement call.
type EngagementRequest struct {
	EntityType     string         `json:"entityType" binding:"required"`
	EntityID       string         `json:"entityId" binding:"required"`
	EngagementType string         `json:"engagementType" binding:"required"`
	UserID         string         `json:"userId"`
	SessionID      string         `json:"sessionId"`
	DeviceType     string         `json:"deviceType"`
	PagePath       string         `json:"pagePath"`
	Metadata       map[string]any `json:"metadata"`
	Timestamp      string         `json:"timestamp"`
}

// RecordView records a view event. Views are persisted as VIEW engagement
// rows with page context folded into metadata.
func (s *EngagementService) RecordView(req *ViewRequest) (*domain.EngagementEvent, error) {
	metadata := make(map[string]any)
	if req.PageTitle != "" {
		metadata["pageTitle"] = req.PageTitle
	}
	if len(req.QueryParams) > 0 {
		metadata["queryParams"] = req.QueryParams
	}

	event := &domain.EngagementEvent{
		ID:             security.GenerateULID(),
		EntityType:     req.EntityType,
		EntityID:       req.EntityID,
		EngagementType: domain.EngagementView,
		UserID:         req.UserID,
		SessionID:      req.SessionID,
		DeviceType:     domain.NormalizeDeviceType(req.DeviceType),
		PagePath:       req.PagePath,
		Metadata:       metadata,
		CreatedAt:      parseEventTimestamp(req.Timestamp),
	}

	return event, s.record(event, "record_view")
}

// RecordEngagement records an explicit engagement event.
func (s *EngagementService) RecordEngagement(req *EngagementRequest) (*domain.EngagementEvent, error) {
	event := &domain.EngagementEvent{
		ID:             security.GenerateULID(),
		EntityType:     req.EntityType,
		EntityID:       req.EntityID,
		EngagementType: req.EngagementType,
		UserID:         req.UserID,
		SessionID:      req.SessionID,
		DeviceType:     domain.NormalizeDeviceType(req.DeviceType),
		PagePath:       req.PagePath,
		Metadata:       req.Metadata,
		CreatedAt:      parseEventTimestamp(req.Timestamp),
	}

	return event, s.record(event, "record_engagement")
}

func (s *EngagementService) record(event *domain.EngagementEvent, operation string) error {
	start := time.Now()
	marker := s.perfTracker.StartOperation(operation)
	defer marker.Complete()

	if err := event.Validate(); err != nil {
		marker.SetSuccess(false)
		s.logger.Analytics().Error("Event validation failed",
			"error", err.Error(),
			"entityType", event.EntityType,
			"entityId", event.EntityID)
		return err
	}

	if err := s.repo.StoreEvent(event); err != nil {
		marker.SetSuccess(false)
		s.logger.Analytics().Error("Event persistence failed",
			"error", err.Error(),
			"eventId", event.ID)
		return err
	}

	// Fold into the live hourly bin and push to connected dashboards.
	s.cache.RecordEvent(event.EntityType, event.EntityID, event.EngagementType, event.SessionID, domain.HourKey(event.CreatedAt))
	s.broadcaster.Broadcast(event)

	marker.SetSuccess(true)
	s.logger.Analytics().Info("Engagement event recorded",
		"eventId", event.ID,
		"entityType", event.EntityType,
		"entityId", event.EntityID,
		"engagementType", event.EngagementType,
		"duration", time.Since(start))
	s.logger.Perf().Info("Performance for "+operation, "duration", time.Since(start), "success", true)

	return nil
}

// parseEventTimestamp accepts an RFC3339 client timestamp and falls back to
// the server clock on anything unparseable. The client clock is advisory only.
func parseEventTimestamp(s string) time.Time {
	if s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}
