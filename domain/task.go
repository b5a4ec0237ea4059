package domain

import (
	"fmt"
	"sort"
	"time"
)

// Status names the board column a task lives in.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "InProgress"
	StatusCompleted  Status = "Completed"
)

// Statuses lists every valid status in board column order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// ValidateStatus accepts only the three enumerated statuses. Every
// status-carrying write path goes through this single gate.
func ValidateStatus(s Status) error {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidStatus, string(s))
}

// Label is a colored tag attached to a task. Insertion order matters.
type Label struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Task represents a single board card.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Labels      []Label   `json:"labels"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Fields carries the caller-supplied parts of a new task.
type Fields struct {
	Title       string
	Description string
	Status      Status
	Labels      []Label
}

// NewTask builds the stored representation of a freshly created task. The
// store supplies identity and the creation instant; everything else takes
// the schema defaults.
func NewTask(id string, now time.Time, f Fields) Task {
	t := Task{
		ID:          id,
		Title:       f.Title,
		Description: f.Description,
		Status:      f.Status,
		Labels:      f.Labels,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t.Status == "" {
		t.Status = StatusPending
	}
	if t.Labels == nil {
		t.Labels = []Label{}
	}
	return t
}

// Patch is a partial task update. Nil fields are left unchanged; labels are
// only replaced when HasLabels is set, so an empty list can be written.
type Patch struct {
	Title       *string
	Description *string
	Status      *Status
	Labels      []Label
	HasLabels   bool
	Position    *int
}

// IsStatusOnly reports whether the patch changes nothing but the status.
func (p Patch) IsStatusOnly() bool {
	return p.Status != nil && p.Title == nil && p.Description == nil &&
		!p.HasLabels && p.Position == nil
}

// Apply merges the patch into t. Identity and timestamps are owned by the
// store and never touched here.
func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.HasLabels {
		labels := p.Labels
		if labels == nil {
			labels = []Label{}
		}
		t.Labels = labels
	}
	if p.Position != nil {
		t.Position = *p.Position
	}
}

// SortForBoard orders tasks by position ascending; ties go to the more
// recently created task. Position is only meaningful between tasks sharing
// a status, so the order is stable across the whole list.
func SortForBoard(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Position != tasks[j].Position {
			return tasks[i].Position < tasks[j].Position
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}
