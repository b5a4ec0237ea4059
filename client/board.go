package client

import (
	"context"
	"sync"

	"taskboard-api/domain"
)

// Column is one rendered board column: a status and its cards sorted by
// position (recency breaks ties).
type Column struct {
	Status domain.Status
	Tasks  []domain.Task
}

// Board is the client-side view-model. It holds the last fetched task list
// and keeps the displayed state convergent with the server: moves are
// applied optimistically and rolled back when the write fails.
type Board struct {
	api *Client

	mu    sync.Mutex
	tasks []domain.Task
}

// NewBoard creates an empty board backed by the given API client. Call
// Refresh before the first render.
func NewBoard(api *Client) *Board {
	return &Board{api: api}
}

// Refresh replaces the local state with the server's task list.
func (b *Board) Refresh(ctx context.Context) error {
	tasks, err := b.api.Tasks(ctx)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.tasks = tasks
	b.mu.Unlock()
	return nil
}

// Columns partitions the current state into the three status columns, each
// sorted in board order.
func (b *Board) Columns() []Column {
	b.mu.Lock()
	tasks := append([]domain.Task(nil), b.tasks...)
	b.mu.Unlock()

	byStatus := make(map[domain.Status][]domain.Task, len(domain.Statuses))
	for _, task := range tasks {
		byStatus[task.Status] = append(byStatus[task.Status], task)
	}

	columns := make([]Column, len(domain.Statuses))
	for i, status := range domain.Statuses {
		col := byStatus[status]
		domain.SortForBoard(col)
		columns[i] = Column{Status: status, Tasks: col}
	}
	return columns
}

// Move drags a task to another column slot. The change is applied locally
// first; a failed write restores the previous snapshot so the display
// matches the server again. On success the server's representation replaces
// the optimistic one.
func (b *Board) Move(ctx context.Context, id string, status domain.Status, position int) error {
	b.mu.Lock()
	snapshot := append([]domain.Task(nil), b.tasks...)
	found := false
	for i := range b.tasks {
		if b.tasks[i].ID == id {
			b.tasks[i].Status = status
			b.tasks[i].Position = position
			found = true
			break
		}
	}
	b.mu.Unlock()
	if !found {
		return domain.ErrTaskNotFound
	}

	updated, err := b.api.Update(ctx, id, UpdateTask{Status: &status, Position: &position})
	if err != nil {
		b.mu.Lock()
		b.tasks = snapshot
		b.mu.Unlock()
		return err
	}

	b.mu.Lock()
	for i := range b.tasks {
		if b.tasks[i].ID == id {
			b.tasks[i] = updated
			break
		}
	}
	b.mu.Unlock()
	return nil
}

// Create posts a new card and refreshes the board on success.
func (b *Board) Create(ctx context.Context, req CreateTask) (domain.Task, error) {
	task, err := b.api.Create(ctx, req)
	if err != nil {
		return domain.Task{}, err
	}
	if err := b.Refresh(ctx); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// Edit sends a partial update from the edit form and refreshes on success.
func (b *Board) Edit(ctx context.Context, id string, req UpdateTask) error {
	if _, err := b.api.Update(ctx, id, req); err != nil {
		return err
	}
	return b.Refresh(ctx)
}
