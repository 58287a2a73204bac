// Package service holds the task business rules on top of a store.TaskStore.
package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"task-tracker/apperrors"
	"task-tracker/models"
	"task-tracker/store"
)

// TaskService is the contract the HTTP layer uses to manage tasks.
type TaskService interface {
	ListAll(ctx context.Context) ([]models.TaskView, error)
	GetByID(ctx context.Context, id int64) (models.TaskView, error)
	Create(ctx context.Context, input *models.CreateTaskInput) (models.TaskView, error)
	Update(ctx context.Context, id int64, input *models.UpdateTaskInput) error
	Delete(ctx context.Context, id int64) error
}

type taskService struct {
	store    store.TaskStore
	validate *validator.Validate
	now      func() time.Time
}

// Option configures a TaskService.
type Option func(*taskService)

// WithClock replaces the clock used to stamp CreatedDate.
func WithClock(now func() time.Time) Option {
	return func(s *taskService) {
		s.now = now
	}
}

// NewTaskService creates a TaskService backed by taskStore.
func NewTaskService(taskStore store.TaskStore, opts ...Option) TaskService {
	s := &taskService{
		store:    taskStore,
		validate: newValidator(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *taskService) ListAll(ctx context.Context) ([]models.TaskView, error) {
	tasks, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]models.TaskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, task.View())
	}
	return views, nil
}

func (s *taskService) GetByID(ctx context.Context, id int64) (models.TaskView, error) {
	task, err := s.mustGet(ctx, id)
	if err != nil {
		return models.TaskView{}, err
	}
	return task.View(), nil
}

func (s *taskService) Create(ctx context.Context, input *models.CreateTaskInput) (models.TaskView, error) {
	if input == nil {
		return models.TaskView{}, apperrors.InvalidArgument("Task data cannot be null.")
	}
	if err := s.validateInput(input); err != nil {
		return models.TaskView{}, err
	}

	// CreatedDate is kept at microsecond precision so every backend round-trips it exactly.
	task, err := s.store.Create(ctx, models.Task{
		Description: input.Description,
		CreatedDate: s.now().UTC().Truncate(time.Microsecond),
		IsCompleted: input.IsCompleted,
	})
	if err != nil {
		return models.TaskView{}, err
	}
	return task.View(), nil
}

func (s *taskService) Update(ctx context.Context, id int64, input *models.UpdateTaskInput) error {
	if input == nil {
		return apperrors.InvalidArgument("Task update data cannot be null.")
	}
	if err := s.validateInput(input); err != nil {
		return err
	}

	existing, err := s.mustGet(ctx, id)
	if err != nil {
		return err
	}

	return s.store.Update(ctx, models.Task{
		ID:          existing.ID,
		Description: input.Description,
		CreatedDate: existing.CreatedDate,
		IsCompleted: input.IsCompleted,
	})
}

func (s *taskService) Delete(ctx context.Context, id int64) error {
	existing, err := s.mustGet(ctx, id)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, existing)
}

// mustGet fetches a task, turning an absent record into a NotFound error.
func (s *taskService) mustGet(ctx context.Context, id int64) (models.Task, error) {
	task, found, err := s.store.GetByID(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	if !found {
		return models.Task{}, apperrors.NotFound("Task with ID %d not found.", id)
	}
	return task, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *taskService) validateInput(input any) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.Internal(err, "failed to validate input")
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required", "notblank":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return apperrors.InvalidArgument("%s", strings.Join(msgs, "; "))
}
