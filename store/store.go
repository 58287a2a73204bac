// Package store persists task records.
package store

import (
	"context"

	"task-tracker/apperrors"
	"task-tracker/models"
)

// TaskStore is the persistence contract for tasks.
//
// Update and Delete return a apperrors.KindNotFound error when no record has the
// task's ID. GetByID reports a missing record through its boolean result instead.
type TaskStore interface {
	ListAll(ctx context.Context) ([]models.Task, error)
	GetByID(ctx context.Context, id int64) (models.Task, bool, error)
	Create(ctx context.Context, task models.Task) (models.Task, error)
	Update(ctx context.Context, task models.Task) error
	Delete(ctx context.Context, task models.Task) error
	Exists(ctx context.Context, id int64) (bool, error)
}

func errTaskNotFound(id int64) error {
	return apperrors.NotFound("Task with ID %d not found.", id)
}
