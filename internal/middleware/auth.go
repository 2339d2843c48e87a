package middleware

import (
	"context"
	"net/http"
	"net/url"

	"gatelog/internal/entity"
)

type contextKey int

const userKey contextKey = 0

// Allowed reports whether role satisfies the required set. An empty set
// means any authenticated role.
func Allowed(role entity.Role, required []entity.Role) bool {
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		if role == r {
			return true
		}
	}
	return false
}

// UserFromContext returns the authenticated user placed there by
// RequireRoles.
func UserFromContext(ctx context.Context) (SessionUser, bool) {
	u, ok := ctx.Value(userKey).(SessionUser)
	return u, ok
}

// RequireRoles gates a route. Anonymous requests bounce to the login
// page with the original path preserved; authenticated requests with
// the wrong role land on the no-access page (a soft redirect, never a
// 403 body). Passing no roles only requires a login.
func (m *SessionManager) RequireRoles(required ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := m.CurrentUser(r)
			if !ok {
				http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
				return
			}

			if !Allowed(user.Role, required) {
				http.Redirect(w, r, "/no-access", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
