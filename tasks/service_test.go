package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"taskboard-api/domain"
)

type mockStore struct {
	createFn       func(ctx context.Context, fields domain.Fields) (domain.Task, error)
	fetchTasksFn   func(ctx context.Context) ([]domain.Task, error)
	fetchTaskFn    func(ctx context.Context, id string) (domain.Task, bool, error)
	updateFn       func(ctx context.Context, id string, patch domain.Patch) (domain.Task, bool, error)
	updateStatusFn func(ctx context.Context, id string, status domain.Status) (domain.Task, bool, error)
}

func (m *mockStore) Create(ctx context.Context, fields domain.Fields) (domain.Task, error) {
	if m.createFn == nil {
		return domain.Task{}, errors.New("unexpected Create call")
	}
	return m.createFn(ctx, fields)
}

func (m *mockStore) FetchTasks(ctx context.Context) ([]domain.Task, error) {
	if m.fetchTasksFn == nil {
		return nil, errors.New("unexpected FetchTasks call")
	}
	return m.fetchTasksFn(ctx)
}

func (m *mockStore) FetchTask(ctx context.Context, id string) (domain.Task, bool, error) {
	if m.fetchTaskFn == nil {
		return domain.Task{}, false, errors.New("unexpected FetchTask call")
	}
	return m.fetchTaskFn(ctx, id)
}

func (m *mockStore) Update(ctx context.Context, id string, patch domain.Patch) (domain.Task, bool, error) {
	if m.updateFn == nil {
		return domain.Task{}, false, errors.New("unexpected Update call")
	}
	return m.updateFn(ctx, id, patch)
}

func (m *mockStore) UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Task, bool, error) {
	if m.updateStatusFn == nil {
		return domain.Task{}, false, errors.New("unexpected UpdateStatus call")
	}
	return m.updateStatusFn(ctx, id, status)
}

func newTestService(store Store) *Service {
	logger, _ := test.NewNullLogger()
	return New(store, logger)
}

func TestCreateTaskRequiresTitle(t *testing.T) {
	svc := newTestService(&mockStore{})

	for _, title := range []string{"", "   ", "\t"} {
		_, err := svc.CreateTask(context.Background(), domain.Fields{Title: title})
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError for title %q, got %v", title, err)
		}
		if verr.Details[0].Field != "title" {
			t.Fatalf("expected title detail, got %+v", verr.Details)
		}
	}
}

func TestCreateTaskRejectsInvalidStatus(t *testing.T) {
	svc := newTestService(&mockStore{})

	_, err := svc.CreateTask(context.Background(), domain.Fields{Title: "x", Status: "Bogus"})
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestCreateTaskDelegatesToStore(t *testing.T) {
	now := time.Now().UTC()
	var got domain.Fields
	store := &mockStore{createFn: func(_ context.Context, fields domain.Fields) (domain.Task, error) {
		got = fields
		return domain.NewTask("t1", now, fields), nil
	}}
	svc := newTestService(store)

	task, err := svc.CreateTask(context.Background(), domain.Fields{Title: "Write spec", Status: domain.StatusInProgress})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.Title != "Write spec" {
		t.Fatalf("store saw wrong fields: %+v", got)
	}
	if task.ID != "t1" || task.Status != domain.StatusInProgress {
		t.Fatalf("unexpected task: %+v", task)
	}
}

func TestGetTaskByIDAbsentBecomesNotFound(t *testing.T) {
	store := &mockStore{fetchTaskFn: func(context.Context, string) (domain.Task, bool, error) {
		return domain.Task{}, false, nil
	}}
	svc := newTestService(store)

	_, err := svc.GetTaskByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestGetTaskByIDPropagatesStoreError(t *testing.T) {
	storeErr := errors.New("table unreachable")
	store := &mockStore{fetchTaskFn: func(context.Context, string) (domain.Task, bool, error) {
		return domain.Task{}, false, storeErr
	}}
	svc := newTestService(store)

	_, err := svc.GetTaskByID(context.Background(), "t1")
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
}

func TestUpdateTaskStatusValidatesBeforeLookup(t *testing.T) {
	called := false
	store := &mockStore{updateStatusFn: func(context.Context, string, domain.Status) (domain.Task, bool, error) {
		called = true
		return domain.Task{}, false, nil
	}}
	svc := newTestService(store)

	_, err := svc.UpdateTaskStatus(context.Background(), "whatever", "Bogus")
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if called {
		t.Fatal("store must not be reached with an invalid status")
	}
}

func TestUpdateTaskStatusAbsentBecomesNotFound(t *testing.T) {
	store := &mockStore{updateStatusFn: func(context.Context, string, domain.Status) (domain.Task, bool, error) {
		return domain.Task{}, false, nil
	}}
	svc := newTestService(store)

	_, err := svc.UpdateTaskStatus(context.Background(), "missing", domain.StatusCompleted)
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestUpdateTaskValidatesPatchStatus(t *testing.T) {
	svc := newTestService(&mockStore{})

	bogus := domain.Status("Bogus")
	_, err := svc.UpdateTask(context.Background(), "t1", domain.Patch{Status: &bogus})
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestUpdateTaskPassesPatchThrough(t *testing.T) {
	var gotID string
	var gotPatch domain.Patch
	store := &mockStore{updateFn: func(_ context.Context, id string, patch domain.Patch) (domain.Task, bool, error) {
		gotID = id
		gotPatch = patch
		return domain.Task{ID: id, Title: *patch.Title}, true, nil
	}}
	svc := newTestService(store)

	title := "renamed"
	pos := 3
	task, err := svc.UpdateTask(context.Background(), "t1", domain.Patch{Title: &title, Position: &pos})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if gotID != "t1" || gotPatch.Title == nil || *gotPatch.Position != 3 {
		t.Fatalf("store saw wrong patch: id=%q patch=%+v", gotID, gotPatch)
	}
	if task.Title != "renamed" {
		t.Fatalf("unexpected task: %+v", task)
	}
}
