// Package controller exposes the task service over HTTP with gin.
package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"path"
	"strconv"

	"github.com/gin-gonic/gin"

	"task-tracker/apperrors"
	"task-tracker/models"
	"task-tracker/service"
)

// TaskController contains the HTTP handlers for task operations.
type TaskController struct {
	service service.TaskService
}

// NewTaskController creates a TaskController backed by svc.
func NewTaskController(svc service.TaskService) *TaskController {
	return &TaskController{service: svc}
}

// RegisterRoutes mounts the task endpoints on rg.
func (tc *TaskController) RegisterRoutes(rg *gin.RouterGroup) {
	tasks := rg.Group("/tasks")
	{
		tasks.GET("", tc.GetTasks)
		tasks.POST("", tc.CreateTask)
		tasks.GET("/:id", tc.GetTask)
		tasks.PUT("/:id", tc.UpdateTask)
		tasks.DELETE("/:id", tc.DeleteTask)
	}
}

// GetTasks handles GET /api/tasks.
func (tc *TaskController) GetTasks(c *gin.Context) {
	tasks, err := tc.service.ListAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GetTask handles GET /api/tasks/:id.
func (tc *TaskController) GetTask(c *gin.Context) {
	id, err := parseTaskID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	task, err := tc.service.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// CreateTask handles POST /api/tasks.
func (tc *TaskController) CreateTask(c *gin.Context) {
	var input *models.CreateTaskInput
	if err := decodeBody(c, &input); err != nil {
		_ = c.Error(err)
		return
	}
	if input == nil {
		_ = c.Error(apperrors.InvalidArgument("Task data cannot be null."))
		return
	}

	task, err := tc.service.Create(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Location", path.Join(c.FullPath(), strconv.FormatInt(task.ID, 10)))
	c.JSON(http.StatusCreated, task)
}

// UpdateTask handles PUT /api/tasks/:id.
func (tc *TaskController) UpdateTask(c *gin.Context) {
	id, err := parseTaskID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var input *models.UpdateTaskInput
	if err := decodeBody(c, &input); err != nil {
		_ = c.Error(err)
		return
	}
	if input == nil {
		_ = c.Error(apperrors.InvalidArgument("Task update data cannot be null."))
		return
	}

	if err := tc.service.Update(c.Request.Context(), id, input); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteTask handles DELETE /api/tasks/:id.
func (tc *TaskController) DeleteTask(c *gin.Context) {
	id, err := parseTaskID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := tc.service.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// parseTaskID reads the :id path parameter. Non-integer IDs are rejected with 400.
func parseTaskID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.InvalidArgument("Invalid task ID %q.", raw)
	}
	return id, nil
}

// decodeBody unmarshals the JSON request body into dst, which must be a pointer to a
// pointer. An empty body or a literal null leaves *dst nil.
func decodeBody(c *gin.Context, dst any) error {
	body, err := c.GetRawData()
	if err != nil {
		return apperrors.InvalidArgument("Invalid request body.")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.InvalidArgument("Invalid request body: %v", err)
	}
	return nil
}
