package middleware

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
)

// RequirePermission checks if user has specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := jwt.ActorFromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			if !user.HasPermission(actor.Role, permission) {
				slog.DebugContext(r.Context(), "permission denied",
					"user_id", actor.UserID,
					"role", string(actor.Role),
					"permission", string(permission),
				)
				response.HandleError(w, user.ErrInsufficientPermission)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
