package api

import (
	"github.com/phrazzld/task-tracker-api/internal/domain"
)

// RegisterRequest defines the payload for the user registration endpoint.
// Presence of every field is checked by the user service.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,max=72"`
	FullName string `json:"fullName"`
	Gender   string `json:"gender"`
}

// LoginRequest defines the payload for the user login endpoint. The email is
// not format checked so every wrong credential fails the same way.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the data returned by register and login.
type AuthResponse struct {
	User  domain.UserSummary `json:"user"`
	Token string             `json:"token"`
}

// UserSearchQuery holds the query parameters of the user search endpoint.
type UserSearchQuery struct {
	Username string `json:"username"`
	Email    string `json:"email"    validate:"omitempty,email"`
}

// CreateTaskRequest defines the payload for the task creation endpoint.
type CreateTaskRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      domain.TaskStatus `json:"status"`
}

// UpdateTaskRequest defines the payload for the task update endpoint.
// Omitted fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Status      *domain.TaskStatus `json:"status"`
}

// ListTasksQuery holds the query parameters of the task listing endpoint.
type ListTasksQuery struct {
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
	Status string `json:"status"`
	Search string `json:"search"`
}
