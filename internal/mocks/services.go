package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/task-tracker-api/internal/domain"
	"github.com/phrazzld/task-tracker-api/internal/service"
	"github.com/phrazzld/task-tracker-api/internal/store"
)

// MockUserService implements service.UserService for handler tests.
// Unset methods report the user as not found.
type MockUserService struct {
	RegisterFn               func(ctx context.Context, input service.RegisterInput) (*domain.User, error)
	AuthenticateFn           func(ctx context.Context, email, password string) (*domain.User, error)
	FindByPublicIdentifierFn func(ctx context.Context, username, email string) (*domain.User, error)
	GetUserFn                func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

var _ service.UserService = (*MockUserService)(nil)

// Register implements the UserService interface
func (m *MockUserService) Register(ctx context.Context, input service.RegisterInput) (*domain.User, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, input)
	}
	return nil, store.ErrUserNotFound
}

// Authenticate implements the UserService interface
func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, email, password)
	}
	return nil, domain.ErrInvalidCredentials
}

// FindByPublicIdentifier implements the UserService interface
func (m *MockUserService) FindByPublicIdentifier(ctx context.Context, username, email string) (*domain.User, error) {
	if m.FindByPublicIdentifierFn != nil {
		return m.FindByPublicIdentifierFn(ctx, username, email)
	}
	return nil, store.ErrUserNotFound
}

// GetUser implements the UserService interface
func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, userID)
	}
	return nil, store.ErrUserNotFound
}

// MockTaskService implements service.TaskService for handler tests.
type MockTaskService struct {
	CreateFn func(ctx context.Context, userID uuid.UUID, input service.CreateTaskInput) (*domain.Task, error)
	ListFn   func(ctx context.Context, userID uuid.UUID, query service.TaskQuery) (*service.TaskPage, error)
	GetFn    func(ctx context.Context, userID uuid.UUID, rawID string) (*domain.Task, error)
	UpdateFn func(
		ctx context.Context,
		userID uuid.UUID,
		rawID string,
		input service.UpdateTaskInput,
	) (*domain.Task, error)
	DeleteFn func(ctx context.Context, userID uuid.UUID, rawID string) error
}

var _ service.TaskService = (*MockTaskService)(nil)

// Create implements the TaskService interface
func (m *MockTaskService) Create(
	ctx context.Context,
	userID uuid.UUID,
	input service.CreateTaskInput,
) (*domain.Task, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, userID, input)
	}
	return domain.NewTask(userID, input.Title, input.Description, input.Status)
}

// List implements the TaskService interface
func (m *MockTaskService) List(
	ctx context.Context,
	userID uuid.UUID,
	query service.TaskQuery,
) (*service.TaskPage, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, query)
	}
	query = query.Normalize()
	return &service.TaskPage{Tasks: []*domain.Task{}, Page: query.Page, Limit: query.Limit}, nil
}

// Get implements the TaskService interface
func (m *MockTaskService) Get(ctx context.Context, userID uuid.UUID, rawID string) (*domain.Task, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID, rawID)
	}
	return nil, store.ErrTaskNotFound
}

// Update implements the TaskService interface
func (m *MockTaskService) Update(
	ctx context.Context,
	userID uuid.UUID,
	rawID string,
	input service.UpdateTaskInput,
) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, userID, rawID, input)
	}
	return nil, store.ErrTaskNotFound
}

// Delete implements the TaskService interface
func (m *MockTaskService) Delete(ctx context.Context, userID uuid.UUID, rawID string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, rawID)
	}
	return store.ErrTaskNotFound
}
