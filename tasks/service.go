package tasks

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"taskboard-api/domain"
)

// Store is the persistence capability set the service builds on. Absence is
// not an error at this layer; lookups report it through the bool result.
type Store interface {
	Create(ctx context.Context, fields domain.Fields) (domain.Task, error)
	FetchTasks(ctx context.Context) ([]domain.Task, error)
	FetchTask(ctx context.Context, id string) (domain.Task, bool, error)
	Update(ctx context.Context, id string, patch domain.Patch) (domain.Task, bool, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Task, bool, error)
}

// Service enforces the board's business rules in front of the store. It is
// the only permitted mutator path; handlers never reach the store directly.
type Service struct {
	store  Store
	logger *log.Logger
}

// New creates a Service over the given store.
func New(store Store, logger *log.Logger) *Service {
	if store == nil {
		panic("tasks.New: store is nil")
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Service{store: store, logger: logger}
}

// CreateTask validates the supplied fields and persists a new task. The
// HTTP surface already rejects empty titles, but the rule is enforced here
// too so direct callers cannot bypass it.
func (s *Service) CreateTask(ctx context.Context, fields domain.Fields) (domain.Task, error) {
	if strings.TrimSpace(fields.Title) == "" {
		return domain.Task{}, domain.NewValidationError("title", "title is required")
	}
	if fields.Status != "" {
		if err := domain.ValidateStatus(fields.Status); err != nil {
			return domain.Task{}, err
		}
	}
	task, err := s.store.Create(ctx, fields)
	if err != nil {
		return domain.Task{}, err
	}
	s.logger.WithFields(log.Fields{"task_id": task.ID, "status": task.Status}).Debug("task created")
	return task, nil
}

// GetTasks returns every task in board order.
func (s *Service) GetTasks(ctx context.Context) ([]domain.Task, error) {
	return s.store.FetchTasks(ctx)
}

// GetTaskByID looks a task up by identity. This is the layer where absence
// becomes an error.
func (s *Service) GetTaskByID(ctx context.Context, id string) (domain.Task, error) {
	task, ok, err := s.store.FetchTask(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return task, nil
}

// UpdateTask merges a partial update into the stored task. A status inside
// the patch goes through the shared validator before the store is touched.
func (s *Service) UpdateTask(ctx context.Context, id string, patch domain.Patch) (domain.Task, error) {
	if patch.Status != nil {
		if err := domain.ValidateStatus(*patch.Status); err != nil {
			return domain.Task{}, err
		}
	}
	task, ok, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return domain.Task{}, err
	}
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	s.logger.WithField("task_id", task.ID).Debug("task updated")
	return task, nil
}

// UpdateTaskStatus moves a task to another column. The status is validated
// before existence is checked, so an invalid value fails the same way
// whether or not the task exists.
func (s *Service) UpdateTaskStatus(ctx context.Context, id string, status domain.Status) (domain.Task, error) {
	if err := domain.ValidateStatus(status); err != nil {
		return domain.Task{}, err
	}
	task, ok, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return domain.Task{}, err
	}
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	s.logger.WithFields(log.Fields{"task_id": task.ID, "status": status}).Debug("task status updated")
	return task, nil
}
