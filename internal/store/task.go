package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/task-tracker-api/internal/domain"
)

// TaskFilter narrows a task listing. Offset and Limit are already normalized
// by the caller.
type TaskFilter struct {
	// Status is an exact match when non-empty.
	Status domain.TaskStatus
	// Search is a case-insensitive substring matched against title or description.
	Search string
	Offset int
	Limit  int
}

// TaskStore defines the interface for task persistence.
// Every method is scoped by the owning user; a task that belongs to someone
// else behaves exactly like one that does not exist.
type TaskStore interface {
	// Create saves a new task.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task owned by userID.
	// Returns ErrTaskNotFound if it does not exist or has another owner.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error)

	// List returns one page of the owner's tasks, newest first, together with
	// the number of tasks matching the filter before pagination.
	List(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]*domain.Task, int, error)

	// Update persists title, description, status and updated_at of a task
	// owned by task.UserID. Returns ErrTaskNotFound if no such task exists.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task owned by userID.
	// Returns ErrTaskNotFound if it does not exist or has another owner.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
