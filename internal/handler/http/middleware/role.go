package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/handler/http/response"
)

// RequirePermission checks if user has specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				response.HandleError(w, user.ErrInvalidToken)
				return
			}

			if !actor.Can(permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, actor.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireManager requires manager or owner role
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			response.HandleError(w, user.ErrInvalidToken)
			return
		}
		if !actor.IsManager() {
			response.HandleError(w, user.ErrInsufficientPermissions)
			return
		}
		next.ServeHTTP(w, r)
	})
}
