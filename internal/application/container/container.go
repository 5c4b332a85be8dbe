// Package container provides dependency injection for singleton services.
package container

import (
	"github.com/ming0627/bellyfed-new-sub002/internal/application/services"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/caching/manager"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/email"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/messaging"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/observability/logging"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/observability/performance"
	persistence "github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/persistence/analytics"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/persistence/database"
)

// Container holds the singleton services shared across requests.
type Container struct {
	Logger      *logging.ChanneledLogger
	PerfTracker *performance.Tracker
	DB          *database.DB
	Cache       *manager.Manager
	Broadcaster *messaging.ActivityBroadcaster

	EventRepo *persistence.SQLEventRepository

	EngagementService *services.EngagementService
	QueryService      *services.QueryService
	KVService         *services.KVService
	AuthService       *services.AuthService
	ReportService     *services.ReportService
}

// NewContainer wires the full service graph. The mailer may be nil when
// digest emails are not configured.
func NewContainer(logger *logging.ChanneledLogger, perfTracker *performance.Tracker, db *database.DB, cache *manager.Manager, mailer email.Service) *Container {
	broadcaster := messaging.NewActivityBroadcaster(logger)
	eventRepo := persistence.NewSQLEventRepository(db, logger)

	queryService := services.NewQueryService(eventRepo, cache, logger, perfTracker)

	c := &Container{
		Logger:      logger,
		PerfTracker: perfTracker,
		DB:          db,
		Cache:       cache,
		Broadcaster: broadcaster,

		EventRepo: eventRepo,

		EngagementService: services.NewEngagementService(eventRepo, cache, broadcaster, logger, perfTracker),
		QueryService:      queryService,
		KVService:         services.NewKVService(cache, logger),
		AuthService:       services.NewAuthService(logger),
		ReportService:     services.NewReportService(eventRepo, queryService, mailer, logger),
	}

	logger.System().Info("Service container initialized")
	return c
}
