// Package httpserver runs the task API over HTTP.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"

	"task-tracker/controller"
	"task-tracker/modules/storage"
	"task-tracker/service"
)

// Module implements an HTTP server using the Gin framework.
type Module struct {
	port          int
	server        *http.Server
	engine        *gin.Engine
	storageModule *storage.Module
	logger        types.Logger
}

// Compile-time interface checks
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new HTTP server module.
func NewModule(port int, logger types.Logger) *Module {
	return &Module{
		port:   port,
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "http-server"
}

// SetStorageModule sets the storage module dependency.
func (m *Module) SetStorageModule(storageModule *storage.Module) {
	m.storageModule = storageModule
}

// Handler returns the gin engine. It is nil until Start succeeds.
func (m *Module) Handler() http.Handler {
	return m.engine
}

// Start builds the router and starts listening in the background.
func (m *Module) Start(ctx context.Context) error {
	if m.storageModule == nil {
		return fmt.Errorf("storage module not set")
	}
	if m.storageModule.Store() == nil {
		return fmt.Errorf("storage module not started")
	}

	gin.SetMode(gin.ReleaseMode)

	svc := service.NewTaskService(m.storageModule.Store())
	m.engine = controller.NewRouter(svc, m.storageModule.Ping, m.logger)

	m.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", m.port),
		Handler:           m.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		m.logger.Info("HTTP server starting", "port", m.port)
		if err := m.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error("HTTP server error", "error", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server.
func (m *Module) Stop(ctx context.Context) error {
	if m.server != nil {
		m.logger.Info("Shutting down HTTP server")
		return m.server.Shutdown(ctx)
	}
	return nil
}

// Health reports whether the server has been started.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.server == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "server not started",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"port": m.port,
		},
	}
}
