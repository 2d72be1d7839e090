package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// TaskStatus represents where a task is in its lifecycle.
type TaskStatus string

// Possible task status values. Any transition between them is allowed.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Field limits, counted in characters after trimming.
const (
	MaxTaskTitleLength       = 100
	MaxTaskDescriptionLength = 1000
)

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewTask creates a task for userID. Title and description are trimmed and
// an empty status defaults to pending.
func NewTask(userID uuid.UUID, title, description string, status TaskStatus) (*Task, error) {
	if status == "" {
		status = TaskStatusPending
	}

	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks the task against its field rules.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "task ID cannot be empty")
	}

	if t.UserID == uuid.Nil {
		return NewValidationError("userId", "task owner cannot be empty")
	}

	if err := ValidateTaskTitle(t.Title); err != nil {
		return err
	}

	if err := ValidateTaskDescription(t.Description); err != nil {
		return err
	}

	if !t.Status.IsValid() {
		return NewValidationError("status", "Status is either: pending, in_progress, or completed")
	}

	return nil
}

// ApplyUpdate overwrites the supplied fields, re-validates the result and
// refreshes UpdatedAt. Nil pointers leave the field untouched.
func (t *Task) ApplyUpdate(title, description *string, status *TaskStatus) error {
	updated := *t

	if title != nil {
		updated.Title = strings.TrimSpace(*title)
	}
	if description != nil {
		updated.Description = strings.TrimSpace(*description)
	}
	if status != nil {
		updated.Status = *status
	}

	if err := updated.Validate(); err != nil {
		return err
	}

	updated.UpdatedAt = time.Now().UTC()
	*t = updated
	return nil
}

// ValidateTaskTitle checks an already trimmed title.
func ValidateTaskTitle(title string) error {
	if title == "" {
		return NewValidationError("title", "Title is required")
	}
	if utf8.RuneCountInString(title) > MaxTaskTitleLength {
		return NewValidationError("title", "Title cannot exceed 100 characters")
	}
	return nil
}

// ValidateTaskDescription checks an already trimmed description.
func ValidateTaskDescription(description string) error {
	if description == "" {
		return NewValidationError("description", "Description is required")
	}
	if utf8.RuneCountInString(description) > MaxTaskDescriptionLength {
		return NewValidationError("description", "Description cannot exceed 1000 characters")
	}
	return nil
}

// IsValid reports whether s is one of the known statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}
