// Package storage owns the task database handle for the lifetime of the application.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/jackc/pgx/v5/pgxpool"

	"task-tracker/config"
	"task-tracker/store"
	"task-tracker/utils"
)

// Module opens the configured database on start and exposes a TaskStore over it.
type Module struct {
	cfg    config.Database
	logger types.Logger

	db    *sql.DB
	pool  *pgxpool.Pool
	store store.TaskStore
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a storage module for cfg.
func NewModule(cfg config.Database, logger types.Logger) *Module {
	return &Module{
		cfg:    cfg,
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "storage"
}

// Store returns the task store. It is nil until Start succeeds.
func (m *Module) Store() store.TaskStore {
	return m.store
}

// Start connects to the database and creates the Tasks table if needed.
func (m *Module) Start(ctx context.Context) error {
	policy := utils.RetryPolicy{
		MaxRetries: m.cfg.MaxRetries,
		MaxDelay:   m.cfg.MaxRetryDelay,
		Logger:     m.logger,
	}

	switch m.cfg.Driver {
	case config.DriverSQLite:
		m.logger.Info("Opening SQLite database", "path", m.cfg.Path)
		db, err := utils.OpenSQLite(ctx, m.cfg.Path, policy)
		if err != nil {
			return err
		}
		m.db = db
		m.store = store.NewSQLiteStore(db, policy)
	case config.DriverPostgres:
		m.logger.Info("Connecting to PostgreSQL")
		pool, err := utils.OpenPostgres(ctx, m.cfg.URL, policy)
		if err != nil {
			return err
		}
		m.pool = pool
		m.store = store.NewPostgresStore(pool, policy)
	default:
		return fmt.Errorf("unsupported database driver %q", m.cfg.Driver)
	}

	m.logger.Info("Storage module started", "driver", m.cfg.Driver)
	return nil
}

// Stop closes the database handle.
func (m *Module) Stop(_ context.Context) error {
	if m.pool != nil {
		m.pool.Close()
		m.pool = nil
	}
	if m.db != nil {
		err := m.db.Close()
		m.db = nil
		if err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	m.logger.Info("Storage module stopped")
	return nil
}

// Ping checks that the database is reachable.
func (m *Module) Ping(ctx context.Context) error {
	switch {
	case m.db != nil:
		return m.db.PingContext(ctx)
	case m.pool != nil:
		return m.pool.Ping(ctx)
	default:
		return fmt.Errorf("database not initialized")
	}
}

// Health reports whether the database answers a ping.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if err := m.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": m.cfg.Driver,
		},
	}
}
