package services

import (
	"context"
	"fmt"
	"time"

	domain "github.com/ming0627/bellyfed-new-sub002/internal/domain/analytics"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/email"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/email/templates"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/observability/logging"
	"github.com/ming0627/bellyfed-new-sub002/pkg/config"
)

// ReportRepository is the persistence dependency of the report service.
type ReportRepository interface {
	CountEventsInRange(startTime, endTime time.Time) (int, error)
}

// ReportService sends the periodic engagement digest email.
type ReportService struct {
	repo    ReportRepository
	queries *QueryService
	mailer  email.Service
	logger  *logging.ChanneledLogger
}

// NewReportService creates the service. The mailer may be nil when reporting
// is not configured; Run then idles without sending.
func NewReportService(repo ReportRepository, queries *QueryService, mailer email.Service, logger *logging.ChanneledLogger) *ReportService {
	return &ReportService{
		repo:    repo,
		queries: queries,
		mailer:  mailer,
		logger:  logger,
	}
}

// Run sends a digest every report interval until the context is cancelled.
func (s *ReportService) Run(ctx context.Context) {
	if s.mailer == nil || config.ReportRecipient == "" {
		s.logger.Email().Info("Engagement reporting disabled",
			"hasMailer", s.mailer != nil,
			"hasRecipient", config.ReportRecipient != "")
		return
	}

	ticker := time.NewTicker(config.ReportInterval)
	defer ticker.Stop()

	s.logger.Email().Info("Engagement report loop started",
		"interval", config.ReportInterval,
		"recipient", config.ReportRecipient)

	for {
		select {
		case <-ctx.Done():
			s.logger.Email().Info("Engagement report loop stopped")
			return
		case <-ticker.C:
			if err := s.SendDigest(); err != nil {
				s.logger.Email().Error("Engagement digest failed", "error", err.Error())
			}
		}
	}
}

// SendDigest composes and sends one digest covering the last report interval.
func (s *ReportService) SendDigest() error {
	now := time.Now().UTC()
	startTime := now.Add(-config.ReportInterval)

	totalEvents, err := s.repo.CountEventsInRange(startTime, now)
	if err != nil {
		return fmt.Errorf("failed to count events for digest: %w", err)
	}

	top, err := s.queries.TopEntitiesAcrossTypes(domain.PeriodDay, 10)
	if err != nil {
		return fmt.Errorf("failed to rank entities for digest: %w", err)
	}

	rows := make([]templates.ReportEntityRow, 0, len(top))
	for _, entry := range top {
		rows = append(rows, templates.ReportEntityRow{
			EntityType: entry.EntityType,
			EntityID:   entry.EntityID,
			Score:      entry.Score,
		})
	}

	periodLabel := fmt.Sprintf("%s to %s",
		startTime.Format("Jan 2 15:04"),
		now.Format("Jan 2 15:04 MST"))

	if err := s.mailer.SendEngagementReport(config.ReportRecipient, periodLabel, totalEvents, rows); err != nil {
		return err
	}

	s.logger.Email().Info("Engagement digest sent",
		"recipient", config.ReportRecipient,
		"totalEvents", totalEvents,
		"topEntities", len(rows))
	return nil
}
