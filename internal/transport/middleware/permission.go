package middleware

import (
	"log/slog"
	"net/http"

	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/transport"
)

// RequireRole lets the request through when the current user has one of roles.
func RequireRole(base *transport.BaseHandler, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := internal.UserFromContext(r.Context())
			if !ok {
				base.WriteAppError(w, internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken))
				return
			}

			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			base.Logger.Warn("access denied: user lacks required role",
				slog.String("user_id", user.ID),
				slog.String("role", user.Role),
				slog.Any("required_roles", roles))
			base.WriteAppError(w, internal.ErrUnauthorizedAccess)
		})
	}
}

func RequireAdmin(base *transport.BaseHandler) func(http.Handler) http.Handler {
	return RequireRole(base, internal.RoleAdmin)
}

// AdminForWrites guards every method except GET and HEAD with RequireAdmin.
func AdminForWrites(base *transport.BaseHandler) func(http.Handler) http.Handler {
	admin := RequireAdmin(base)
	return func(next http.Handler) http.Handler {
		guarded := admin(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			guarded.ServeHTTP(w, r)
		})
	}
}
