// Package client provides a typed API client and a board view-model for the
// task board service.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"taskboard-api/domain"
)

// APIError is a non-2xx response decoded into the service's error shape.
type APIError struct {
	StatusCode int
	Message    string
	Details    []domain.FieldError
}

func (e *APIError) Error() string {
	if len(e.Details) > 0 {
		parts := make([]string, len(e.Details))
		for i, d := range e.Details {
			parts[i] = d.Field + ": " + d.Message
		}
		return fmt.Sprintf("api: %s (%s)", e.Message, strings.Join(parts, "; "))
	}
	return "api: " + e.Message
}

// CreateTask is the POST /tasks request body.
type CreateTask struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Labels      []domain.Label `json:"labels,omitempty"`
}

// UpdateTask is the PUT /tasks/:id request body; nil fields stay untouched.
type UpdateTask struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Status      *domain.Status  `json:"status,omitempty"`
	Labels      *[]domain.Label `json:"labels,omitempty"`
	Position    *int            `json:"position,omitempty"`
}

// Client talks to the task board REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the service at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := sonic.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var decoded struct {
			Message string              `json:"message"`
			Details []domain.FieldError `json:"details"`
		}
		if err := sonic.Unmarshal(data, &decoded); err == nil && decoded.Message != "" {
			apiErr.Message = decoded.Message
			apiErr.Details = decoded.Details
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return sonic.Unmarshal(data, out)
}

// Tasks fetches the full board in server order.
func (c *Client) Tasks(ctx context.Context) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Task fetches a single task by id.
func (c *Client) Task(ctx context.Context, id string) (domain.Task, error) {
	var task domain.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/"+id, nil, &task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// Create posts a new task and returns the stored representation.
func (c *Client) Create(ctx context.Context, req CreateTask) (domain.Task, error) {
	var task domain.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", req, &task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// Update sends a partial update and returns the new state.
func (c *Client) Update(ctx context.Context, id string, req UpdateTask) (domain.Task, error) {
	var task domain.Task
	if err := c.do(ctx, http.MethodPut, "/tasks/"+id, req, &task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}
