package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
)

// RequireCompany rejects non-admin callers whose token carries no company.
func RequireCompany(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := jwt.ActorFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}
		if !actor.IsAdmin() && actor.CompanyID == nil {
			response.HandleError(w, user.ErrCompanyIDRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CompanyScope applies the company-scope rule to the named URL parameter:
// admins pass, everyone else only for their own company.
func CompanyScope(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := jwt.ActorFromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}
			if !actor.CanAccessCompany(chi.URLParam(r, param)) {
				response.HandleError(w, user.ErrCompanyScope)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
