package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/task-tracker-api/internal/domain"
	"github.com/phrazzld/task-tracker-api/internal/platform/logger"
	"github.com/phrazzld/task-tracker-api/internal/service/auth"
	"github.com/phrazzld/task-tracker-api/internal/store"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Gender   string
}

// UserService provides registration, authentication and user lookups.
type UserService interface {
	// Register creates a user. Returns *store.DuplicateError when the email
	// or username is taken and *domain.ValidationError for bad input.
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)

	// Authenticate returns the user owning email if password matches.
	// Unknown email and wrong password both return domain.ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// FindByPublicIdentifier looks a user up by username or email.
	FindByPublicIdentifier(ctx context.Context, username, email string) (*domain.User, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	hasher    auth.PasswordHasher
	logger    *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService
func NewUserService(
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	logger *slog.Logger,
) (*UserServiceImpl, error) {
	if userStore == nil {
		return nil, fmt.Errorf("userStore cannot be nil")
	}
	if hasher == nil {
		return nil, fmt.Errorf("hasher cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserServiceImpl{
		userStore: userStore,
		hasher:    hasher,
		logger:    logger.With(slog.String("component", "user_service")),
	}, nil
}

// Register implements UserService.
func (s *UserServiceImpl) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	input.FullName = strings.TrimSpace(input.FullName)
	input.Gender = strings.TrimSpace(input.Gender)

	if input.Username == "" || input.Email == "" || input.Password == "" ||
		input.FullName == "" || input.Gender == "" {
		return nil, requiredError(MsgAllFieldsRequired)
	}
	if len(input.Password) > domain.MaxPasswordLength {
		return nil, domain.NewValidationError("password",
			fmt.Sprintf("password must be at most %d characters long", domain.MaxPasswordLength))
	}

	existing, err := s.userStore.FindByUsernameOrEmail(ctx, input.Username, input.Email)
	switch {
	case err == nil:
		field := store.FieldUsername
		if existing.Email == input.Email {
			field = store.FieldEmail
		}
		log.Debug("registration rejected, identity taken", slog.String("field", field))
		return nil, store.NewDuplicateError(field)
	case !errors.Is(err, store.ErrUserNotFound):
		log.Error("failed to check for existing user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	user, err := domain.NewUser(input.Username, input.Email, hashed, input.FullName, input.Gender)
	if err != nil {
		return nil, err
	}

	// the store's unique constraints catch registrations racing past the lookup
	if err := s.userStore.Create(ctx, user); err != nil {
		if store.IsDuplicateError(err) {
			log.Debug("registration lost a uniqueness race", slog.String("error", err.Error()))
			return nil, err
		}
		log.Error("failed to save user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

// Authenticate implements UserService.
func (s *UserServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, requiredError(MsgEmailAndPasswordRequired)
	}

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			log.Error("failed to load user for login", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to authenticate: %w", err)
		}
		// burn the same bcrypt work as a real comparison
		_ = s.hasher.Compare(s.dummyPasswordHash(), password)
		log.Debug("login failed")
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			log.Error("password comparison failed",
				slog.String("user_id", user.ID.String()),
				slog.String("error", err.Error()))
		}
		log.Debug("login failed")
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

// FindByPublicIdentifier implements UserService.
func (s *UserServiceImpl) FindByPublicIdentifier(
	ctx context.Context,
	username, email string,
) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" && email == "" {
		return nil, requiredError(MsgProvideUsernameOrEmail)
	}

	user, err := s.userStore.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, err
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to search user",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to search user: %w", err)
	}

	return user, nil
}

// GetUser implements UserService.
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, err
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

func (s *UserServiceImpl) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			s.logger.Warn("failed to prepare dummy password hash", slog.String("error", err.Error()))
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
