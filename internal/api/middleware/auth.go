package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/task-tracker-api/internal/api/shared"
	"github.com/phrazzld/task-tracker-api/internal/domain"
	"github.com/phrazzld/task-tracker-api/internal/platform/logger"
	"github.com/phrazzld/task-tracker-api/internal/service/auth"
	"github.com/phrazzld/task-tracker-api/internal/store"
)

// Responses sent when a request cannot be authenticated.
const (
	MsgNoToken          = "Not authorized, no token"
	MsgTokenFailed      = "Not authorized, token failed"
	MsgUserNotFound     = "Not authorized, user not found"
	MsgAuthServiceError = "Failed to authenticate request"
)

const bearerPrefix = "Bearer "

// UserGetter loads the user named by a token's subject.
type UserGetter interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// AuthMiddleware resolves the bearer token of a request to a user.
type AuthMiddleware struct {
	jwtService auth.JWTService
	users      UserGetter
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, users UserGetter) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
	}
}

// Authenticate rejects requests without a valid bearer token for an
// existing user. Otherwise the user and its ID are attached to the request
// context before next runs.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromContextOrDefault(ctx, slog.Default())

		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, MsgNoToken)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		if token == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, MsgNoToken)
			return
		}

		claims, err := m.jwtService.ValidateToken(ctx, token)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, MsgTokenFailed, err)
			return
		}

		user, err := m.users.GetUser(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, MsgUserNotFound, err,
					shared.WithElevatedLogLevel())
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, MsgAuthServiceError, err)
			return
		}

		ctx = shared.WithUser(ctx, user)
		ctx = logger.WithLogger(ctx, log.With(slog.String("user_id", user.ID.String())))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
