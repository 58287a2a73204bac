package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"task-tracker/models"
	"task-tracker/utils"
)

// SQLiteStore is a TaskStore backed by a SQLite database.
type SQLiteStore struct {
	db    *sql.DB
	retry utils.RetryPolicy
}

var _ TaskStore = (*SQLiteStore)(nil)

// NewSQLiteStore creates a SQLiteStore. The Tasks table must already exist.
func NewSQLiteStore(db *sql.DB, retry utils.RetryPolicy) *SQLiteStore {
	return &SQLiteStore{db: db, retry: retry}
}

func (s *SQLiteStore) do(ctx context.Context, op func() error) error {
	return s.retry.Do(ctx, utils.IsTransientSQLite, op)
}

// ListAll retrieves every task in storage order.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]models.Task, error) {
	query := `
    SELECT Id, Description, CreatedDate, IsCompleted
    FROM Tasks
    `
	var tasks []models.Task
	err := s.do(ctx, func() error {
		rows, err := s.db.QueryContext(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		tasks = make([]models.Task, 0)
		for rows.Next() {
			var task models.Task
			if err := rows.Scan(&task.ID, &task.Description, &task.CreatedDate, &task.IsCompleted); err != nil {
				return err
			}
			task.CreatedDate = task.CreatedDate.UTC()
			tasks = append(tasks, task)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetByID retrieves a task by ID. The boolean is false when no task has that ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (models.Task, bool, error) {
	query := `
    SELECT Id, Description, CreatedDate, IsCompleted
    FROM Tasks
    WHERE Id = ?
    `
	var task models.Task
	found := true
	err := s.do(ctx, func() error {
		err := s.db.QueryRowContext(ctx, query, id).
			Scan(&task.ID, &task.Description, &task.CreatedDate, &task.IsCompleted)
		if errors.Is(err, sql.ErrNoRows) {
			found = false
			return nil
		}
		return err
	})
	if err != nil {
		return models.Task{}, false, fmt.Errorf("failed to get task %d: %w", id, err)
	}
	if !found {
		return models.Task{}, false, nil
	}
	task.CreatedDate = task.CreatedDate.UTC()
	return task, true, nil
}

// Create inserts a new task and returns it with its generated ID.
func (s *SQLiteStore) Create(ctx context.Context, task models.Task) (models.Task, error) {
	query := `
    INSERT INTO Tasks (Description, CreatedDate, IsCompleted)
    VALUES (?, ?, ?)
    `
	err := s.do(ctx, func() error {
		result, err := s.db.ExecContext(ctx, query, task.Description, task.CreatedDate, task.IsCompleted)
		if err != nil {
			return err
		}
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		task.ID = id
		return nil
	})
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// Update replaces the description and completion state of an existing task.
func (s *SQLiteStore) Update(ctx context.Context, task models.Task) error {
	exists, err := s.Exists(ctx, task.ID)
	if err != nil {
		return err
	}
	if !exists {
		return errTaskNotFound(task.ID)
	}

	query := `
    UPDATE Tasks
    SET Description = ?, IsCompleted = ?
    WHERE Id = ?
    `
	var affected int64
	err = s.do(ctx, func() error {
		result, err := s.db.ExecContext(ctx, query, task.Description, task.IsCompleted, task.ID)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update task %d: %w", task.ID, err)
	}
	if affected == 0 {
		return errTaskNotFound(task.ID)
	}
	return nil
}

// Delete removes an existing task.
func (s *SQLiteStore) Delete(ctx context.Context, task models.Task) error {
	exists, err := s.Exists(ctx, task.ID)
	if err != nil {
		return err
	}
	if !exists {
		return errTaskNotFound(task.ID)
	}

	var affected int64
	err = s.do(ctx, func() error {
		result, err := s.db.ExecContext(ctx, "DELETE FROM Tasks WHERE Id = ?", task.ID)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete task %d: %w", task.ID, err)
	}
	if affected == 0 {
		return errTaskNotFound(task.ID)
	}
	return nil
}

// Exists checks if a task with the given ID exists.
func (s *SQLiteStore) Exists(ctx context.Context, id int64) (bool, error) {
	var count int
	err := s.do(ctx, func() error {
		return s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM Tasks WHERE Id = ?", id).Scan(&count)
	})
	if err != nil {
		return false, fmt.Errorf("failed to check task %d: %w", id, err)
	}
	return count > 0, nil
}
