package controller

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/apperrors"
	"task-tracker/service"
	"task-tracker/store"
)

func newErrorEngine(logger *recordingLogger) *gin.Engine {
	engine := gin.New()
	engine.Use(RequestID())
	engine.Use(ErrorHandler(logger))
	return engine
}

func TestErrorHandler_KindToStatus(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"not found", apperrors.NotFound("Task with ID 7 not found."), http.StatusNotFound, "Task with ID 7 not found."},
		{"invalid argument", apperrors.InvalidArgument("bad input"), http.StatusBadRequest, "bad input"},
		{"unauthorized", apperrors.Unauthorized("missing credentials"), http.StatusUnauthorized, "missing credentials"},
		{"internal", apperrors.Internal(errors.New("disk on fire"), "failed to list tasks"), http.StatusInternalServerError, "An unexpected error occurred."},
		{"foreign error", errors.New("boom"), http.StatusInternalServerError, "An unexpected error occurred."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &recordingLogger{}
			engine := newErrorEngine(logger)
			engine.GET("/fail", func(c *gin.Context) {
				_ = c.Error(tt.err)
			})

			rec := doRequest(engine, http.MethodGet, "/fail", "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
			detail := decodeError(t, rec)
			assert.Equal(t, tt.wantMessage, detail.Message)
			assert.Equal(t, tt.wantStatus, detail.StatusCode)
			assert.Equal(t, 1, logger.errorCount())
		})
	}
}

func TestErrorHandler_RecoversPanic(t *testing.T) {
	logger := &recordingLogger{}
	engine := newErrorEngine(logger)
	engine.GET("/panic", func(c *gin.Context) {
		panic("unexpected nil map")
	})

	rec := doRequest(engine, http.MethodGet, "/panic", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, "An unexpected error occurred.", detail.Message)
	assert.Equal(t, http.StatusInternalServerError, detail.StatusCode)
	assert.Equal(t, 1, logger.errorCount())
}

func TestErrorHandler_LastErrorWins(t *testing.T) {
	logger := &recordingLogger{}
	engine := newErrorEngine(logger)
	engine.GET("/many", func(c *gin.Context) {
		_ = c.Error(apperrors.InvalidArgument("first"))
		_ = c.Error(apperrors.NotFound("second"))
	})

	rec := doRequest(engine, http.MethodGet, "/many", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "second", decodeError(t, rec).Message)
	assert.Equal(t, 2, logger.errorCount())
}

func TestErrorHandler_KeepsWrittenResponse(t *testing.T) {
	logger := &recordingLogger{}
	engine := newErrorEngine(logger)
	engine.GET("/written", func(c *gin.Context) {
		c.String(http.StatusAccepted, "partial")
		_ = c.Error(errors.New("late failure"))
	})

	rec := doRequest(engine, http.MethodGet, "/written", "")

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
	assert.Equal(t, 1, logger.errorCount())
}

func TestErrorHandler_NoErrors(t *testing.T) {
	logger := &recordingLogger{}
	engine := newErrorEngine(logger)
	engine.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	rec := doRequest(engine, http.MethodGet, "/ok", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Zero(t, logger.errorCount())
}

func TestRouter_UnknownRoute(t *testing.T) {
	router, logger := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/projects", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, http.StatusNotFound, detail.StatusCode)
	assert.Contains(t, detail.Message, "/api/projects")
	assert.Equal(t, 1, logger.errorCount())
}

func TestRouter_TrailingSlashIsNotRedirected(t *testing.T) {
	router, _ := newTestRouter(t)
	createTask(t, router, `{"description":"Slash"}`)

	for _, target := range []string{"/api/tasks/1/", "/api/tasks/"} {
		t.Run(target, func(t *testing.T) {
			rec := doRequest(router, http.MethodGet, target, "")

			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Empty(t, rec.Header().Get("Location"))
			assert.Equal(t, http.StatusNotFound, decodeError(t, rec).StatusCode)
		})
	}
}

func TestRequestID(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("generated", func(t *testing.T) {
		rec := doRequest(router, http.MethodGet, "/api/tasks", "")
		assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	})

	t.Run("propagated", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, "/api/tasks", nil)
		require.NoError(t, err)
		req.Header.Set(RequestIDHeader, "req-123")

		rec := serve(router, req)
		assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
	})
}

func TestCORS(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodOptions, "/api/tasks", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PUT")

	rec = doRequest(router, http.MethodGet, "/api/tasks", "")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealth(t *testing.T) {
	svc := service.NewTaskService(store.NewMemoryStore())

	t.Run("healthy", func(t *testing.T) {
		router := NewRouter(svc, func(context.Context) error { return nil }, &recordingLogger{})

		rec := doRequest(router, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	})

	t.Run("unhealthy", func(t *testing.T) {
		router := NewRouter(svc, func(context.Context) error { return errors.New("database unreachable") }, &recordingLogger{})

		rec := doRequest(router, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"status":"unhealthy","error":"database unreachable"}`, rec.Body.String())
	})
}
