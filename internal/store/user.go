package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/task-tracker-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
// Users are created once and never updated or deleted by the application.
type UserStore interface {
	// Create saves a new user. The user must already carry a password hash.
	// Returns a *DuplicateError if the username or email is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by exact email, including the password hash.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindByUsernameOrEmail returns the first user whose username equals
	// username or whose email equals email. Empty arguments never match.
	// Returns ErrUserNotFound if nobody matches.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
}
