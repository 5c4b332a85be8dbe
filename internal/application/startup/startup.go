// Package startup wires the full application together and manages its
// lifecycle.
package startup

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ming0627/bellyfed-new-sub002/internal/application/container"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/caching/cleanup"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/caching/manager"
	schema "github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/database"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/email"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/observability/logging"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/observability/performance"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/persistence/database"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/security"
	"github.com/ming0627/bellyfed-new-sub002/internal/presentation/http/server"
	"github.com/ming0627/bellyfed-new-sub002/pkg/config"
)

// Initialize boots the service and blocks until shutdown completes.
func Initialize() error {
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()

	logger.Startup().Info("Bellyfed analytics service starting",
		"port", config.Port,
		"dbDriver", config.DBDriver)

	perfTracker := performance.NewTracker()

	db, err := database.NewConnectionWithLogger(config.DBDriver, config.DBPath, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := schema.EnsureSchema(db, logger); err != nil {
		return err
	}

	cache := manager.NewManager(logger)

	// Without a configured secret, dashboard tokens still work within this
	// process lifetime but do not survive restarts.
	if config.JWTSecret == "" {
		secret, err := security.GenerateSecureKey(64)
		if err != nil {
			return fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		config.JWTSecret = secret
		logger.Auth().Warn("JWT_SECRET not set, generated an ephemeral secret")
	}

	// Digest emails are optional; without RESEND_API_KEY the report loop idles.
	mailer, err := email.NewService()
	if err != nil {
		logger.Email().Info("Email service unavailable", "reason", err.Error())
		mailer = nil
	}

	c := container.NewContainer(logger, perfTracker, db, cache, mailer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleanupWorker := cleanup.NewWorker(cache, perfTracker, cleanup.NewConfig(), logger)
	go cleanupWorker.Start(ctx)
	go c.ReportService.Run(ctx)

	srv := server.New(c)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
			return err
		}
	case sig := <-sigCh:
		logger.Shutdown().Info("Shutdown signal received", "signal", sig.String())
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Shutdown().Error("Graceful shutdown failed", "error", err.Error())
		return err
	}

	logger.Shutdown().Info("Bellyfed analytics service stopped")
	return nil
}
