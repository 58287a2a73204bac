package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantKind   Kind
		wantStatus int
	}{
		{"not found", NotFound("task with ID %d not found", 7), KindNotFound, http.StatusNotFound},
		{"invalid argument", InvalidArgument("bad"), KindInvalidArgument, http.StatusBadRequest},
		{"unauthorized", Unauthorized("no token"), KindUnauthorized, http.StatusUnauthorized},
		{"internal", Internal(errors.New("disk"), "failed"), KindInternal, http.StatusInternalServerError},
		{"plain error", errors.New("boom"), KindInternal, http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("delete task: %w", NotFound("gone")), KindNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind := KindOf(tt.err)
			if kind != tt.wantKind {
				t.Errorf("KindOf() = %v, want %v", kind, tt.wantKind)
			}
			if kind.HTTPStatus() != tt.wantStatus {
				t.Errorf("HTTPStatus() = %d, want %d", kind.HTTPStatus(), tt.wantStatus)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	if got := Message(fmt.Errorf("get: %w", NotFound("Task with ID %d not found.", 3))); got != "Task with ID 3 not found." {
		t.Errorf("Message() = %q", got)
	}
	if got := Message(errors.New("connection refused")); got != "An unexpected error occurred." {
		t.Errorf("Message() leaked internal error: %q", got)
	}
	if got := Message(Internal(errors.New("io"), "write failed")); got != "An unexpected error occurred." {
		t.Errorf("Message() leaked internal error: %q", got)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("driver closed")
	err := Internal(cause, "failed to list tasks")
	if !errors.Is(err, cause) {
		t.Error("expected Internal error to wrap its cause")
	}
	if err.Error() != "failed to list tasks: driver closed" {
		t.Errorf("Error() = %q", err.Error())
	}
}
