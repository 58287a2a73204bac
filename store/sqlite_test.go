package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"task-tracker/models"
	"task-tracker/utils"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := utils.OpenSQLite(context.Background(), ":memory:", utils.RetryPolicy{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) TaskStore {
		return NewSQLiteStore(setupTestDB(t), utils.RetryPolicy{})
	})
}

func TestSQLiteStore_RejectsOverlongDescription(t *testing.T) {
	repo := NewSQLiteStore(setupTestDB(t), utils.RetryPolicy{})

	_, err := repo.Create(context.Background(), models.Task{
		Description: strings.Repeat("x", models.MaxDescriptionLength+1),
		CreatedDate: time.Now().UTC(),
	})
	if err == nil {
		t.Fatal("expected CHECK constraint violation, got nil")
	}
}

func TestSQLiteStore_PersistsToTable(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteStore(db, utils.RetryPolicy{})

	created, err := repo.Create(context.Background(), models.Task{
		Description: "Buy milk",
		CreatedDate: time.Now().UTC(),
		IsCompleted: true,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	var description string
	var completed bool
	err = db.QueryRow("SELECT Description, IsCompleted FROM Tasks WHERE Id = ?", created.ID).
		Scan(&description, &completed)
	if err != nil {
		t.Fatalf("failed to find created task: %v", err)
	}
	if description != "Buy milk" {
		t.Errorf("expected description %q, got %q", "Buy milk", description)
	}
	if !completed {
		t.Error("expected IsCompleted to be true")
	}
}
