package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/task-tracker-api/internal/api/shared"
	"github.com/phrazzld/task-tracker-api/internal/service"
)

// UserHandler serves user lookups for authenticated callers.
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		userService: userService,
		logger:      logger.With(slog.String("component", "user_handler")),
	}
}

// Search handles GET /api/user/search?username=&email=.
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := UserSearchQuery{
		Username: r.URL.Query().Get("username"),
		Email:    r.URL.Query().Get("email"),
	}
	if err := shared.ValidateRequest(query); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.userService.FindByPublicIdentifier(r.Context(), query.Username, query.Email)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch user")
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "", user)
}
