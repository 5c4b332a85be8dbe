// Package server builds and runs the HTTP server.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ming0627/bellyfed-new-sub002/internal/application/container"
	"github.com/ming0627/bellyfed-new-sub002/internal/presentation/http/routes"
	"github.com/ming0627/bellyfed-new-sub002/pkg/config"
)

// Server wraps the gin engine and the underlying http.Server.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	container  *container.Container
}

// New builds the server with routes registered.
func New(c *container.Container) *Server {
	if gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	routes.Register(engine, c)

	return &Server{
		engine: engine,
		httpServer: &http.Server{
			Addr:         ":" + config.Port,
			Handler:      engine,
			ReadTimeout:  config.ServerReadTimeout,
			WriteTimeout: config.ServerWriteTimeout,
			IdleTimeout:  config.ServerIdleTimeout,
		},
		container: c,
	}
}

// Engine exposes the router, used by tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run blocks serving requests until the listener fails or is shut down.
func (s *Server) Run() error {
	s.container.Logger.Startup().Info("HTTP server listening", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.container.Logger.Shutdown().Info("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}
