package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/task-tracker-api/internal/domain"
	"github.com/phrazzld/task-tracker-api/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	CreateFn                func(ctx context.Context, user *domain.User) error
	GetByIDFn               func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn            func(ctx context.Context, email string) (*domain.User, error)
	FindByUsernameOrEmailFn func(ctx context.Context, username, email string) (*domain.User, error)

	mu    sync.Mutex
	Users map[uuid.UUID]*domain.User
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a new mock store with an empty user map
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{Users: make(map[uuid.UUID]*domain.User)}
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Users == nil {
		m.Users = make(map[uuid.UUID]*domain.User)
	}
	for _, existing := range m.Users {
		if existing.Email == user.Email {
			return store.NewDuplicateError(store.FieldEmail)
		}
		if existing.Username == user.Username {
			return store.NewDuplicateError(store.FieldUsername)
		}
	}
	m.Users[user.ID] = user
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.Users[id]; ok {
		return user, nil
	}
	return nil, store.ErrUserNotFound
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.Users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// FindByUsernameOrEmail implements the UserStore interface
func (m *MockUserStore) FindByUsernameOrEmail(
	ctx context.Context,
	username, email string,
) (*domain.User, error) {
	if m.FindByUsernameOrEmailFn != nil {
		return m.FindByUsernameOrEmailFn(ctx, username, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var byUsername *domain.User
	for _, user := range m.Users {
		if email != "" && user.Email == email {
			return user, nil
		}
		if username != "" && user.Username == username {
			byUsername = user
		}
	}
	if byUsername != nil {
		return byUsername, nil
	}
	return nil, store.ErrUserNotFound
}
