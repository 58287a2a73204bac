package controller

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"

	"task-tracker/apperrors"
)

const (
	// RequestIDHeader carries the request correlation ID.
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
)

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// ErrorHandler translates errors attached to the gin context, and panics raised by
// later handlers, into JSON error responses. Every caught error is logged once.
func ErrorHandler(logger types.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err := apperrors.Internal(fmt.Errorf("%v", r), "panic while handling request")
				logRequestError(c, logger, err, "stack", string(debug.Stack()))
				respondError(c, err)
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		for _, ginErr := range c.Errors {
			logRequestError(c, logger, ginErr.Err)
		}
		respondError(c, c.Errors.Last().Err)
	}
}

func respondError(c *gin.Context, err error) {
	if c.Writer.Written() {
		return
	}
	status := apperrors.KindOf(err).HTTPStatus()
	c.AbortWithStatusJSON(status, ErrorBody{
		Error: ErrorDetail{
			Message:    apperrors.Message(err),
			StatusCode: status,
		},
	})
}

func logRequestError(c *gin.Context, logger types.Logger, err error, extra ...any) {
	kind := apperrors.KindOf(err)
	args := []any{
		"error", err.Error(),
		"kind", kind.String(),
		"status", kind.HTTPStatus(),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"request_id", c.GetString(requestIDKey),
	}
	args = append(args, extra...)
	logger.Error("An error occurred", args...)
}

// RequestID propagates the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger provides request logging.
func RequestLogger(logger types.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString(requestIDKey),
		)
	}
}

// CORS allows any origin, method and header.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "*")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
