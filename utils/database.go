package utils

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "modernc.org/sqlite"

	"task-tracker/models"
)

const sqliteBusyTimeoutMs = 5000

var sqliteSchema = fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS Tasks (
	Id          INTEGER PRIMARY KEY AUTOINCREMENT,
	Description VARCHAR(%[1]d) NOT NULL CHECK (length(Description) BETWEEN 1 AND %[1]d),
	CreatedDate DATETIME NOT NULL,
	IsCompleted BOOLEAN NOT NULL DEFAULT 0
);
`, models.MaxDescriptionLength)

var postgresSchema = fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS "Tasks" (
	"Id"          BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
	"Description" VARCHAR(%d) NOT NULL,
	"CreatedDate" TIMESTAMPTZ NOT NULL,
	"IsCompleted" BOOLEAN NOT NULL DEFAULT FALSE
);
`, models.MaxDescriptionLength)

// OpenSQLite opens the SQLite database at path and ensures the Tasks table exists.
// The pool is limited to a single connection: SQLite serializes writers and an
// in-memory database lives only as long as its connection.
func OpenSQLite(ctx context.Context, path string, policy RetryPolicy) (*sql.DB, error) {
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	err = policy.Do(ctx, IsTransientSQLite, func() error {
		return db.PingContext(ctx)
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := EnsureSQLiteSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// sqliteDSN appends the connection pragmas to path so every pooled connection gets them.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(" + strconv.Itoa(sqliteBusyTimeoutMs) + ")"
}

// EnsureSQLiteSchema creates the Tasks table if it does not exist.
func EnsureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to create Tasks table: %w", err)
	}
	return nil
}

// OpenPostgres creates a pgx connection pool for url, waits until the server answers
// and ensures the Tasks table exists.
func OpenPostgres(ctx context.Context, url string, policy RetryPolicy) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	err = policy.Do(ctx, IsTransientPostgres, func() error {
		return pool.Ping(ctx)
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := EnsurePostgresSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// EnsurePostgresSchema creates the Tasks table if it does not exist.
func EnsurePostgresSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to create Tasks table: %w", err)
	}
	return nil
}
