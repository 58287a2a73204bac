package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"task-tracker/models"
	"task-tracker/utils"
)

// PostgresStore is a TaskStore backed by PostgreSQL.
type PostgresStore struct {
	pool  *pgxpool.Pool
	retry utils.RetryPolicy
}

var _ TaskStore = (*PostgresStore)(nil)

// NewPostgresStore creates a PostgresStore. The Tasks table must already exist.
func NewPostgresStore(pool *pgxpool.Pool, retry utils.RetryPolicy) *PostgresStore {
	return &PostgresStore{pool: pool, retry: retry}
}

func (s *PostgresStore) do(ctx context.Context, op func() error) error {
	return s.retry.Do(ctx, utils.IsTransientPostgres, op)
}

// ListAll retrieves every task in storage order.
func (s *PostgresStore) ListAll(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	err := s.do(ctx, func() error {
		rows, err := s.pool.Query(ctx, `
			SELECT "Id", "Description", "CreatedDate", "IsCompleted"
			FROM "Tasks"`)
		if err != nil {
			return err
		}
		defer rows.Close()

		tasks = make([]models.Task, 0)
		for rows.Next() {
			var t models.Task
			if err := rows.Scan(&t.ID, &t.Description, &t.CreatedDate, &t.IsCompleted); err != nil {
				return err
			}
			t.CreatedDate = t.CreatedDate.UTC()
			tasks = append(tasks, t)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// GetByID retrieves a single task. The boolean is false when no task has that ID.
func (s *PostgresStore) GetByID(ctx context.Context, id int64) (models.Task, bool, error) {
	var t models.Task
	found := true
	err := s.do(ctx, func() error {
		err := s.pool.QueryRow(ctx, `
			SELECT "Id", "Description", "CreatedDate", "IsCompleted"
			FROM "Tasks" WHERE "Id" = $1`, id).
			Scan(&t.ID, &t.Description, &t.CreatedDate, &t.IsCompleted)
		if errors.Is(err, pgx.ErrNoRows) {
			found = false
			return nil
		}
		return err
	})
	if err != nil {
		return models.Task{}, false, fmt.Errorf("get task %d: %w", id, err)
	}
	if !found {
		return models.Task{}, false, nil
	}
	t.CreatedDate = t.CreatedDate.UTC()
	return t, true, nil
}

// Create inserts a new task and returns it with its generated ID.
func (s *PostgresStore) Create(ctx context.Context, t models.Task) (models.Task, error) {
	err := s.retry.Do(ctx, utils.IsRetryableInsertPostgres, func() error {
		return s.pool.QueryRow(ctx, `
			INSERT INTO "Tasks" ("Description", "CreatedDate", "IsCompleted")
			VALUES ($1, $2, $3)
			RETURNING "Id"`,
			t.Description, t.CreatedDate, t.IsCompleted).Scan(&t.ID)
	})
	if err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

// Update replaces the description and completion state of an existing task.
func (s *PostgresStore) Update(ctx context.Context, t models.Task) error {
	exists, err := s.Exists(ctx, t.ID)
	if err != nil {
		return err
	}
	if !exists {
		return errTaskNotFound(t.ID)
	}

	var rows int64
	err = s.do(ctx, func() error {
		tag, err := s.pool.Exec(ctx, `
			UPDATE "Tasks" SET "Description" = $1, "IsCompleted" = $2
			WHERE "Id" = $3`,
			t.Description, t.IsCompleted, t.ID)
		if err != nil {
			return err
		}
		rows = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("update task %d: %w", t.ID, err)
	}
	if rows == 0 {
		return errTaskNotFound(t.ID)
	}
	return nil
}

// Delete removes an existing task.
func (s *PostgresStore) Delete(ctx context.Context, t models.Task) error {
	exists, err := s.Exists(ctx, t.ID)
	if err != nil {
		return err
	}
	if !exists {
		return errTaskNotFound(t.ID)
	}

	var rows int64
	err = s.do(ctx, func() error {
		tag, err := s.pool.Exec(ctx, `DELETE FROM "Tasks" WHERE "Id" = $1`, t.ID)
		if err != nil {
			return err
		}
		rows = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete task %d: %w", t.ID, err)
	}
	if rows == 0 {
		return errTaskNotFound(t.ID)
	}
	return nil
}

// Exists checks if a task with the given ID exists.
func (s *PostgresStore) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.do(ctx, func() error {
		return s.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM "Tasks" WHERE "Id" = $1)`, id).Scan(&exists)
	})
	if err != nil {
		return false, fmt.Errorf("check task %d: %w", id, err)
	}
	return exists, nil
}
