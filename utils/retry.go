package utils

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// RetryPolicy retries storage operations that fail with a transient driver fault.
// The zero value performs a single attempt.
type RetryPolicy struct {
	MaxRetries int
	MaxDelay   time.Duration
	Logger     types.Logger
}

// Do runs op, retrying with capped exponential backoff while isTransient reports true.
// Non-transient errors are returned immediately.
func (p RetryPolicy) Do(ctx context.Context, isTransient func(error) bool, op func() error) error {
	if p.MaxRetries <= 0 {
		return op()
	}

	eb := backoff.NewExponentialBackOff()
	eb.MaxElapsedTime = 0
	if p.MaxDelay > 0 {
		eb.MaxInterval = p.MaxDelay
		if eb.InitialInterval > p.MaxDelay {
			eb.InitialInterval = p.MaxDelay
		}
	}
	b := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(p.MaxRetries)), ctx)

	return backoff.RetryNotify(func() error {
		err := op()
		if err != nil && !isTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b, func(err error, wait time.Duration) {
		if p.Logger != nil {
			p.Logger.Warn("Transient storage failure, retrying", "error", err, "wait", wait.String())
		}
	})
}

// IsTransientSQLite reports whether err is a SQLite busy or locked condition.
func IsTransientSQLite(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	return false
}

// IsTransientPostgres reports whether err is a PostgreSQL fault worth retrying:
// connection failures, serialization failures, deadlocks and server startup.
func IsTransientPostgres(err error) bool {
	if err == nil {
		return false
	}
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return true
	}
	var ce *pgconn.ConnectError
	if errors.As(err, &ce) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08":
			return true
		case pgErr.Code == "40001", pgErr.Code == "40P01", pgErr.Code == "57P03":
			return true
		}
	}
	return false
}

// IsRetryableInsertPostgres is IsTransientPostgres narrowed to faults where the server
// cannot have committed the statement. Timeouts and broken connections are excluded:
// the insert may already have landed, and running it again would duplicate the row.
func IsRetryableInsertPostgres(err error) bool {
	if err == nil {
		return false
	}
	if pgconn.SafeToRetry(err) {
		return true
	}
	var ce *pgconn.ConnectError
	if errors.As(err, &ce) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "57P03":
			return true
		}
	}
	return false
}
