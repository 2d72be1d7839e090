package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/task-tracker-api/internal/api/shared"
	"github.com/phrazzld/task-tracker-api/internal/domain"
	"github.com/phrazzld/task-tracker-api/internal/service/auth"
	"github.com/phrazzld/task-tracker-api/internal/store"
)

// Client-facing messages for well-known failures.
const (
	MsgInvalidRequestFormat = "Invalid request format"
	MsgInvalidCredentials   = "Invalid credentials"
	MsgInvalidToken         = "Invalid token"
	MsgInvalidTaskID        = "Invalid task ID"
	MsgTaskNotFound         = "Task not found"
	MsgUserNotFound         = "User not found"
	MsgEmailExists          = "Email already exists"
	MsgUsernameExists       = "Username already exists"
	MsgUnauthorized         = "Not authorized"
	MsgUnexpected           = "An unexpected error occurred"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes. Unknown
// errors, including nil, map to 500.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusInternalServerError

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, shared.ErrInvalidRequestBody):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a message for err that is safe to show to
// clients. Errors without a known mapping yield MsgUnexpected.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return MsgUnexpected
	}

	var vErr *domain.ValidationError
	var dupErr *store.DuplicateError

	switch {
	case errors.As(err, &vErr):
		return vErr.Message
	case errors.Is(err, shared.ErrInvalidRequestBody):
		return MsgInvalidRequestFormat
	case errors.Is(err, domain.ErrInvalidID):
		return MsgInvalidTaskID

	case errors.Is(err, domain.ErrInvalidCredentials):
		return MsgInvalidCredentials
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return MsgInvalidToken
	case errors.Is(err, domain.ErrUnauthorized):
		return MsgUnauthorized

	case errors.Is(err, store.ErrTaskNotFound):
		return MsgTaskNotFound
	case errors.Is(err, store.ErrUserNotFound):
		return MsgUserNotFound

	case errors.As(err, &dupErr):
		if dupErr.Field == store.FieldUsername {
			return MsgUsernameExists
		}
		return MsgEmailExists

	default:
		return MsgUnexpected
	}
}

// HandleAPIError writes the response for err. Server errors are reported
// with serverMessage instead of the generic one; the raw error only reaches
// the logs, redacted.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, serverMessage string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && serverMessage != "" {
		message = serverMessage
	}

	var opts []shared.ResponseOption
	if errors.Is(err, domain.ErrInvalidCredentials) {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
