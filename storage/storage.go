package storage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"taskboard-api/domain"
)

// taskPartition keys all board tasks into a single partition so one pager
// pass returns the whole board.
const taskPartition = "tasks"

// Storage persists tasks as Azure Table Storage entities.
type Storage struct {
	taskTable *aztables.Client
	now       func() time.Time
}

// New creates a Storage instance from the given connection string.
func New(connStr, tasksTable string) (*Storage, error) {
	tablesClientOptions := aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    3,
				TryTimeout:    time.Minute * 3,
				RetryDelay:    time.Second * 1,
				MaxRetryDelay: time.Second * 15,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	svc, err := aztables.NewServiceClientFromConnectionString(connStr, &tablesClientOptions)
	if err != nil {
		return nil, err
	}
	return &Storage{taskTable: svc.NewClient(tasksTable), now: func() time.Time { return time.Now().UTC() }}, nil
}

// taskEntity is the table representation of a task. Labels are nested and
// table properties are flat, so they travel as a JSON string.
type taskEntity struct {
	aztables.Entity
	Title       string `json:"Title"`
	Description string `json:"Description"`
	Status      string `json:"Status"`
	Labels      string `json:"Labels"`
	Position    int    `json:"Position"`
	CreatedAt   string `json:"CreatedAt"`
	UpdatedAt   string `json:"UpdatedAt"`
}

func encodeTaskEntity(t domain.Task) ([]byte, error) {
	labels, err := sonic.MarshalString(t.Labels)
	if err != nil {
		return nil, err
	}
	return json.Marshal(taskEntity{
		Entity:      aztables.Entity{PartitionKey: taskPartition, RowKey: t.ID},
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Labels:      labels,
		Position:    t.Position,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339Nano),
	})
}

func decodeTaskEntity(data []byte) (domain.Task, error) {
	var ent taskEntity
	if err := json.Unmarshal(data, &ent); err != nil {
		return domain.Task{}, err
	}
	labels := []domain.Label{}
	if ent.Labels != "" {
		if err := sonic.UnmarshalString(ent.Labels, &labels); err != nil {
			return domain.Task{}, err
		}
	}
	createdAt, err := time.Parse(time.RFC3339Nano, ent.CreatedAt)
	if err != nil {
		return domain.Task{}, err
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, ent.UpdatedAt)
	if err != nil {
		return domain.Task{}, err
	}
	return domain.Task{
		ID:          ent.RowKey,
		Title:       ent.Title,
		Description: ent.Description,
		Status:      domain.Status(ent.Status),
		Labels:      labels,
		Position:    ent.Position,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

func isNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}

// Create assigns identity and timestamps, persists the task and returns the
// stored representation.
func (s *Storage) Create(ctx context.Context, fields domain.Fields) (domain.Task, error) {
	task := domain.NewTask(uuid.NewString(), s.now(), fields)
	data, err := encodeTaskEntity(task)
	if err != nil {
		return domain.Task{}, err
	}
	if _, err := s.taskTable.AddEntity(ctx, data, nil); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// FetchTasks retrieves every task on the board in board order.
func (s *Storage) FetchTasks(ctx context.Context) ([]domain.Task, error) {
	filter := "PartitionKey eq '" + taskPartition + "'"
	pager := s.taskTable.NewListEntitiesPager(&aztables.ListEntitiesOptions{Filter: &filter})
	tasks := []domain.Task{}
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, e := range resp.Entities {
			task, err := decodeTaskEntity(e)
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, task)
		}
	}
	domain.SortForBoard(tasks)
	return tasks, nil
}

// FetchTask looks a task up by id. A missing task is reported through the
// bool result rather than an error.
func (s *Storage) FetchTask(ctx context.Context, id string) (domain.Task, bool, error) {
	resp, err := s.taskTable.GetEntity(ctx, taskPartition, id, nil)
	if err != nil {
		if isNotFound(err) {
			return domain.Task{}, false, nil
		}
		return domain.Task{}, false, err
	}
	task, err := decodeTaskEntity(resp.Value)
	if err != nil {
		return domain.Task{}, false, err
	}
	return task, true, nil
}

// Update merges the patch into the stored task and replaces the entity
// whole. There is no ETag check: concurrent writers to the same task race
// at entity granularity and the last write wins.
func (s *Storage) Update(ctx context.Context, id string, patch domain.Patch) (domain.Task, bool, error) {
	task, ok, err := s.FetchTask(ctx, id)
	if err != nil || !ok {
		return domain.Task{}, ok, err
	}

	patch.Apply(&task)
	task.UpdatedAt = s.now()

	data, err := encodeTaskEntity(task)
	if err != nil {
		return domain.Task{}, false, err
	}
	_, err = s.taskTable.UpdateEntity(ctx, data, &aztables.UpdateEntityOptions{
		UpdateMode: aztables.UpdateModeReplace,
	})
	if err != nil {
		if isNotFound(err) {
			return domain.Task{}, false, nil
		}
		return domain.Task{}, false, err
	}
	return task, true, nil
}

// UpdateStatus is the status-only specialization of Update.
func (s *Storage) UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Task, bool, error) {
	return s.Update(ctx, id, domain.Patch{Status: &status})
}
