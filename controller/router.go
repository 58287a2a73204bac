package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-monolith/mono/pkg/types"

	"task-tracker/apperrors"
	"task-tracker/service"
)

// HealthFunc reports whether the backing store is reachable.
type HealthFunc func(ctx context.Context) error

// NewRouter builds the gin engine serving the task API.
func NewRouter(svc service.TaskService, health HealthFunc, logger types.Logger) *gin.Engine {
	engine := gin.New()
	// Trailing-slash variants get the JSON 404 instead of a redirect.
	engine.RedirectTrailingSlash = false

	engine.Use(RequestID())
	engine.Use(RequestLogger(logger))
	engine.Use(ErrorHandler(logger))
	engine.Use(CORS())

	engine.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperrors.NotFound("Route %s %s not found.", c.Request.Method, c.Request.URL.Path))
	})

	engine.GET("/health", func(c *gin.Context) {
		if health != nil {
			if err := health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	NewTaskController(svc).RegisterRoutes(engine.Group("/api"))

	return engine
}
