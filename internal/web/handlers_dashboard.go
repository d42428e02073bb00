package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/mudassir044/au-pair-connect-frontend/internal/platform"
)

// dashboardData fetches the matches and bookings shown on both role
// dashboards. Fetch failures are non-fatal: the page renders without the
// section and the user sees a transient notification. A 401-class response
// tears the session down.
func (s *Server) dashboardData(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	clientID := ClientIDFromContext(r.Context())
	sess := s.sessions.Get(r.Context(), clientID)
	token := sess.Token()

	matches, err := s.platform.Matches(r.Context(), token)
	if err != nil {
		if errors.Is(err, platform.ErrUnauthenticated) {
			sess.Invalidate(r.Context())
			s.flashes.Add(clientID, "error", "Your session has expired. Please log in again.")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return nil, false
		}
		slog.Warn("matches fetch failed", "client", clientID, "error", err)
		s.flashes.Add(clientID, "error", "Could not load your matches right now.")
	}

	bookings, err := s.platform.ListBookings(r.Context(), token)
	if err != nil && !errors.Is(err, platform.ErrUnauthenticated) {
		slog.Warn("bookings fetch failed", "client", clientID, "error", err)
	}

	return map[string]any{
		"Matches":  matches,
		"Bookings": bookings,
	}, true
}

func (s *Server) getAuPairDashboard(w http.ResponseWriter, r *http.Request) {
	s.roleDashboard(w, r, "dashboard_au_pair.html")
}

func (s *Server) getHostFamilyDashboard(w http.ResponseWriter, r *http.Request) {
	s.roleDashboard(w, r, "dashboard_host_family.html")
}

func (s *Server) roleDashboard(w http.ResponseWriter, r *http.Request, tmpl string) {
	user := UserFromContext(r.Context())
	if !user.ProfileComplete {
		http.Redirect(w, r, "/onboarding", http.StatusSeeOther)
		return
	}

	data, ok := s.dashboardData(w, r)
	if !ok {
		return
	}
	s.render(w, tmpl, s.pageData(r, data))
}

func (s *Server) getAdminDashboard(w http.ResponseWriter, r *http.Request) {
	s.render(w, "dashboard_admin.html", s.pageData(r, map[string]any{
		"ActiveSessions": s.sessions.Len(),
	}))
}

func (s *Server) getMessages(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	convs := s.messages.ConversationsFor(user.ID, user.Role)

	selected := r.URL.Query().Get("c")
	if selected == "" && len(convs) > 0 {
		selected = convs[0].ID
	}

	s.render(w, "messages.html", s.pageData(r, map[string]any{
		"Conversations": convs,
		"Selected":      selected,
		"Messages":      s.messages.Messages(selected),
	}))
}

func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	_ = r.ParseForm()
	conv := r.Form.Get("conversation")
	body := r.Form.Get("body")

	if conv != "" && body != "" {
		s.messages.Send(user.ID, conv, body)
	}
	http.Redirect(w, r, "/dashboard/messages?c="+url.QueryEscape(conv), http.StatusSeeOther)
}
