package store

import (
	"context"
	"sort"
	"sync"

	"task-tracker/models"
)

// MemoryStore keeps tasks in process memory. It backs tests and local experiments.
type MemoryStore struct {
	mu     sync.RWMutex
	tasks  map[int64]models.Task
	nextID int64
}

var _ TaskStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks:  make(map[int64]models.Task),
		nextID: 1,
	}
}

// ListAll returns all tasks ordered by ID.
func (s *MemoryStore) ListAll(_ context.Context) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		result = append(result, task)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// GetByID finds a task by ID.
func (s *MemoryStore) GetByID(_ context.Context, id int64) (models.Task, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, found := s.tasks[id]
	return task, found, nil
}

// Create stores a new task under the next free ID.
func (s *MemoryStore) Create(_ context.Context, task models.Task) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task.ID = s.nextID
	s.nextID++
	s.tasks[task.ID] = task
	return task, nil
}

// Update replaces the mutable fields of an existing task.
func (s *MemoryStore) Update(_ context.Context, task models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, found := s.tasks[task.ID]
	if !found {
		return errTaskNotFound(task.ID)
	}
	existing.Description = task.Description
	existing.IsCompleted = task.IsCompleted
	s.tasks[task.ID] = existing
	return nil
}

// Delete removes an existing task.
func (s *MemoryStore) Delete(_ context.Context, task models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.tasks[task.ID]; !found {
		return errTaskNotFound(task.ID)
	}
	delete(s.tasks, task.ID)
	return nil
}

// Exists reports whether a task with the given ID is stored.
func (s *MemoryStore) Exists(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, found := s.tasks[id]
	return found, nil
}
