package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/task-tracker-api/internal/domain"
	"github.com/phrazzld/task-tracker-api/internal/platform/logger"
	"github.com/phrazzld/task-tracker-api/internal/store"
)

// Pagination defaults and bounds.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit within int for any limit up to MaxLimit.
	MaxPage = math.MaxInt / MaxLimit
)

// CreateTaskInput carries the fields of a new task. An empty Status means pending.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      domain.TaskStatus
}

// UpdateTaskInput carries a partial update; nil fields are left unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
}

// TaskQuery selects one page of the caller's tasks.
type TaskQuery struct {
	Page   int
	Limit  int
	Status domain.TaskStatus
	Search string
}

// Normalize applies defaults: page<1 becomes 1, limit<1 becomes DefaultLimit.
// Page is capped at MaxPage and limit at MaxLimit.
func (q TaskQuery) Normalize() TaskQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// Offset is the number of tasks preceding the requested page.
func (q TaskQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// TaskPage is one page of a task listing.
type TaskPage struct {
	Tasks []*domain.Task
	Total int
	Page  int
	Limit int
}

// Pages is the number of pages needed to show Total tasks.
func (p TaskPage) Pages() int {
	if p.Limit < 1 {
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

// TaskService manages tasks on behalf of their owner. Every method takes
// the owner's ID; tasks of other users are reported as not found.
type TaskService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (*domain.Task, error)
	List(ctx context.Context, userID uuid.UUID, query TaskQuery) (*TaskPage, error)
	Get(ctx context.Context, userID uuid.UUID, rawID string) (*domain.Task, error)
	Update(ctx context.Context, userID uuid.UUID, rawID string, input UpdateTaskInput) (*domain.Task, error)
	Delete(ctx context.Context, userID uuid.UUID, rawID string) error
}

// TaskServiceImpl implements the TaskService interface
type TaskServiceImpl struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a new TaskService
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger) (*TaskServiceImpl, error) {
	if taskStore == nil {
		return nil, fmt.Errorf("taskStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskServiceImpl{
		taskStore: taskStore,
		logger:    logger.With(slog.String("component", "task_service")),
	}, nil
}

// Create implements TaskService.
func (s *TaskServiceImpl) Create(
	ctx context.Context,
	userID uuid.UUID,
	input CreateTaskInput,
) (*domain.Task, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, requiredError(MsgTitleAndDescriptionRequired)
	}

	task, err := domain.NewTask(userID, input.Title, input.Description, input.Status)
	if err != nil {
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// List implements TaskService.
func (s *TaskServiceImpl) List(ctx context.Context, userID uuid.UUID, query TaskQuery) (*TaskPage, error) {
	query = query.Normalize()

	tasks, total, err := s.taskStore.List(ctx, userID, store.TaskFilter{
		Status: query.Status,
		Search: query.Search,
		Offset: query.Offset(),
		Limit:  query.Limit,
	})
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return &TaskPage{
		Tasks: tasks,
		Total: total,
		Page:  query.Page,
		Limit: query.Limit,
	}, nil
}

// Get implements TaskService.
func (s *TaskServiceImpl) Get(ctx context.Context, userID uuid.UUID, rawID string) (*domain.Task, error) {
	id, err := parseTaskID(rawID)
	if err != nil {
		return nil, err
	}

	task, err := s.taskStore.GetByID(ctx, userID, id)
	if err != nil {
		return nil, s.wrapStoreError(ctx, "get", id, err)
	}
	return task, nil
}

// Update implements TaskService.
func (s *TaskServiceImpl) Update(
	ctx context.Context,
	userID uuid.UUID,
	rawID string,
	input UpdateTaskInput,
) (*domain.Task, error) {
	id, err := parseTaskID(rawID)
	if err != nil {
		return nil, err
	}

	task, err := s.taskStore.GetByID(ctx, userID, id)
	if err != nil {
		return nil, s.wrapStoreError(ctx, "update", id, err)
	}

	if err := task.ApplyUpdate(input.Title, input.Description, input.Status); err != nil {
		return nil, err
	}

	if err := s.taskStore.Update(ctx, task); err != nil {
		return nil, s.wrapStoreError(ctx, "update", id, err)
	}

	return task, nil
}

// Delete implements TaskService.
func (s *TaskServiceImpl) Delete(ctx context.Context, userID uuid.UUID, rawID string) error {
	id, err := parseTaskID(rawID)
	if err != nil {
		return err
	}

	if err := s.taskStore.Delete(ctx, userID, id); err != nil {
		return s.wrapStoreError(ctx, "delete", id, err)
	}
	return nil
}

// wrapStoreError passes not-found through untouched and logs anything else.
func (s *TaskServiceImpl) wrapStoreError(ctx context.Context, op string, id uuid.UUID, err error) error {
	if errors.Is(err, store.ErrTaskNotFound) {
		return err
	}
	logger.FromContextOrDefault(ctx, s.logger).Error("task store operation failed",
		slog.String("operation", op),
		slog.String("task_id", id.String()),
		slog.String("error", err.Error()))
	return fmt.Errorf("failed to %s task: %w", op, err)
}

func parseTaskID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", domain.ErrInvalidID, raw)
	}
	return id, nil
}
