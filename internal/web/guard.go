package web

import (
	"context"
	"net/http"
	"slices"

	"github.com/mudassir044/au-pair-connect-frontend/internal/platform"
	"github.com/mudassir044/au-pair-connect-frontend/internal/session"
)

// ContextWithUser returns a new context carrying the authenticated user.
func ContextWithUser(ctx context.Context, user *platform.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext extracts the user from the context, or nil if not present.
func UserFromContext(ctx context.Context) *platform.User {
	user, _ := ctx.Value(userContextKey).(*platform.User)
	return user
}

// RoleHomePath maps a role to its landing dashboard. This is the only place
// that mapping exists; every redirect goes through it.
func RoleHomePath(role platform.Role) string {
	switch role {
	case platform.RoleAuPair:
		return "/dashboard/au-pair"
	case platform.RoleHostFamily:
		return "/dashboard/host-family"
	default:
		return "/dashboard/admin"
	}
}

// requireRoles guards a route group. While the session is still restoring a
// neutral placeholder is rendered, never protected content. Anonymous users
// are sent to the login page; authenticated users of the wrong role are
// sent to their own dashboard, never an error page.
func (s *Server) requireRoles(roles ...platform.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := ClientIDFromContext(r.Context())
			ctrl := s.sessions.Get(r.Context(), clientID)

			if ctrl.Loading() || ctrl.State() == session.StateRestoring {
				s.render(w, "loading.html", s.pageData(r, nil))
				return
			}

			user := ctrl.User()
			if user == nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if !slices.Contains(roles, user.Role) {
				http.Redirect(w, r, RoleHomePath(user.Role), http.StatusSeeOther)
				return
			}

			ctx := ContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
