package domain

import (
	"errors"
	"strings"
)

var (
	// ErrTaskNotFound marks a reference to a task id that does not exist.
	ErrTaskNotFound = errors.New("task not found")
	// ErrInvalidStatus marks a status value outside the enumeration.
	ErrInvalidStatus = errors.New("invalid status")
)

// FieldError points a validation failure at a single input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates field-level input failures so a client can
// highlight several problems at once.
type ValidationError struct {
	Details []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Details))
	for i, d := range e.Details {
		parts[i] = d.Field + ": " + d.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a single-field validation failure.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Details: []FieldError{{Field: field, Message: message}}}
}
