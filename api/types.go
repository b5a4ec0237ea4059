package api

import (
	"context"

	"taskboard-api/domain"
)

const requestBodyMaxSize = 64 * 1024 // 64 KiB

// Tasks is the service surface consumed by the HTTP handlers.
type Tasks interface {
	CreateTask(ctx context.Context, fields domain.Fields) (domain.Task, error)
	GetTasks(ctx context.Context) ([]domain.Task, error)
	GetTaskByID(ctx context.Context, id string) (domain.Task, error)
	UpdateTask(ctx context.Context, id string, patch domain.Patch) (domain.Task, error)
	UpdateTaskStatus(ctx context.Context, id string, status domain.Status) (domain.Task, error)
}

// POST /tasks request body
type createTaskRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Labels      []domain.Label `json:"labels"`
}

// PUT /tasks/:id request body; absent fields stay untouched
type updateTaskRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Status      *string         `json:"status"`
	Labels      *[]domain.Label `json:"labels"`
	Position    *int            `json:"position"`
}

type errorResponse struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Details []domain.FieldError `json:"details,omitempty"`
}
