package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskboard-api/domain"
)

// Memory is an in-process Store adapter with the same capability set and
// semantics as the table-backed one. It backs tests and the
// STORAGE_DRIVER=memory dev mode.
type Memory struct {
	mu    sync.RWMutex
	tasks map[string]domain.Task
	now   func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		tasks: make(map[string]domain.Task),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (m *Memory) Create(ctx context.Context, fields domain.Fields) (domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task := domain.NewTask(uuid.NewString(), m.now(), fields)
	m.tasks[task.ID] = task
	return task, nil
}

func (m *Memory) FetchTasks(ctx context.Context) ([]domain.Task, error) {
	m.mu.RLock()
	tasks := make([]domain.Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		tasks = append(tasks, task)
	}
	m.mu.RUnlock()

	domain.SortForBoard(tasks)
	return tasks, nil
}

func (m *Memory) FetchTask(ctx context.Context, id string) (domain.Task, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	task, ok := m.tasks[id]
	return task, ok, nil
}

func (m *Memory) Update(ctx context.Context, id string, patch domain.Patch) (domain.Task, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok {
		return domain.Task{}, false, nil
	}
	patch.Apply(&task)
	task.UpdatedAt = m.now()
	m.tasks[id] = task
	return task, true, nil
}

func (m *Memory) UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Task, bool, error) {
	return m.Update(ctx, id, domain.Patch{Status: &status})
}
