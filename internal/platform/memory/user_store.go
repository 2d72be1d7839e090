package memory

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/task-tracker-api/internal/domain"
	"github.com/phrazzld/task-tracker-api/internal/platform/logger"
	"github.com/phrazzld/task-tracker-api/internal/store"
)

// UserStore implements store.UserStore on a DB.
type UserStore struct {
	db     *DB
	logger *slog.Logger
}

var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates a UserStore backed by db.
func NewUserStore(db *DB, logger *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserStore{
		db:     db,
		logger: logger.With(slog.String("component", "memory_user_store")),
	}
}

// Create implements store.UserStore.Create. Uniqueness is checked and the
// row inserted under one write lock, so concurrent registrations cannot both win.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, existing := range s.db.users {
		if existing.Email == user.Email {
			return store.NewDuplicateError(store.FieldEmail)
		}
		if existing.Username == user.Username {
			return store.NewDuplicateError(store.FieldUsername)
		}
	}

	s.db.users[user.ID] = *user

	logger.FromContextOrDefault(ctx, s.logger).Debug("user created",
		slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	user, ok := s.db.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &user, nil
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, user := range s.db.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// FindByUsernameOrEmail implements store.UserStore.FindByUsernameOrEmail.
// An email match takes precedence over a username match.
func (s *UserStore) FindByUsernameOrEmail(
	_ context.Context,
	username, email string,
) (*domain.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var byUsername *domain.User
	for _, user := range s.db.users {
		if email != "" && user.Email == email {
			return &user, nil
		}
		if byUsername == nil && username != "" && user.Username == username {
			u := user
			byUsername = &u
		}
	}

	if byUsername != nil {
		return byUsername, nil
	}
	return nil, store.ErrUserNotFound
}
