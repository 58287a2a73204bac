package models

import "time"

// MaxDescriptionLength is the maximum number of characters a task description may hold.
// The max= validation tags on the input types must match it.
const MaxDescriptionLength = 200

// Task is a persisted task record.
type Task struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	CreatedDate time.Time `json:"createdDate"`
	IsCompleted bool      `json:"isCompleted"`
}

// TaskView is the external representation of a Task.
type TaskView struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	CreatedDate time.Time `json:"createdDate"`
	IsCompleted bool      `json:"isCompleted"`
}

// CreateTaskInput is the payload for creating a task.
type CreateTaskInput struct {
	Description string `json:"description" validate:"required,notblank,max=200"`
	IsCompleted bool   `json:"isCompleted"`
}

// UpdateTaskInput replaces the description and completion state of a task.
type UpdateTaskInput struct {
	Description string `json:"description" validate:"required,notblank,max=200"`
	IsCompleted bool   `json:"isCompleted"`
}

// View projects the task onto its external shape.
func (t Task) View() TaskView {
	return TaskView{
		ID:          t.ID,
		Description: t.Description,
		CreatedDate: t.CreatedDate,
		IsCompleted: t.IsCompleted,
	}
}
