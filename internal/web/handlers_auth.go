package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/mudassir044/au-pair-connect-frontend/internal/onboarding"
	"github.com/mudassir044/au-pair-connect-frontend/internal/platform"
)

// afterLoginPath decides where a freshly signed-in user lands: the wizard
// when their profile is incomplete, otherwise their dashboard.
func afterLoginPath(user *platform.User) string {
	if !user.ProfileComplete && onboarding.TotalSteps(user.Role) > 0 {
		return "/onboarding"
	}
	return RoleHomePath(user.Role)
}

func (s *Server) getLogin(w http.ResponseWriter, r *http.Request) {
	ctrl := s.sessions.Get(r.Context(), ClientIDFromContext(r.Context()))
	if user := ctrl.User(); user != nil {
		http.Redirect(w, r, afterLoginPath(user), http.StatusSeeOther)
		return
	}
	s.render(w, "login.html", s.pageData(r, nil))
}

// postLogin validates the form locally, then hands credentials to the
// session controller. Validation failures never leave this handler.
func (s *Server) postLogin(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	email := strings.TrimSpace(r.Form.Get("email"))
	password := r.Form.Get("password")

	if email == "" || !strings.Contains(email, "@") || password == "" {
		s.render(w, "login.html", s.pageData(r, map[string]any{
			"Error": "Please enter a valid email address and password.",
			"Email": email,
		}))
		return
	}

	ctrl := s.sessions.Get(r.Context(), ClientIDFromContext(r.Context()))
	if err := ctrl.Login(r.Context(), email, password); err != nil {
		if s.metrics != nil {
			s.metrics.IncAuthFailure("login")
		}
		s.render(w, "login.html", s.pageData(r, map[string]any{
			"Error": loginErrorMessage(err),
			"Email": email,
		}))
		return
	}

	if s.metrics != nil {
		s.metrics.IncAuthSuccess("login")
	}
	http.Redirect(w, r, afterLoginPath(ctrl.User()), http.StatusSeeOther)
}

func loginErrorMessage(err error) string {
	switch {
	case errors.Is(err, platform.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, platform.ErrNetwork):
		return "Unable to reach AuPairConnect. Check your connection and try again."
	default:
		return "Something went wrong. Please try again later."
	}
}

func (s *Server) getRegister(w http.ResponseWriter, r *http.Request) {
	ctrl := s.sessions.Get(r.Context(), ClientIDFromContext(r.Context()))
	if user := ctrl.User(); user != nil {
		http.Redirect(w, r, afterLoginPath(user), http.StatusSeeOther)
		return
	}
	s.render(w, "register.html", s.pageData(r, nil))
}

func (s *Server) postRegister(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	in := platform.RegisterInput{
		Email:     strings.TrimSpace(r.Form.Get("email")),
		Password:  r.Form.Get("password"),
		Role:      platform.Role(r.Form.Get("role")),
		FirstName: strings.TrimSpace(r.Form.Get("firstName")),
		LastName:  strings.TrimSpace(r.Form.Get("lastName")),
	}

	if msg := validateRegistration(in); msg != "" {
		s.render(w, "register.html", s.pageData(r, map[string]any{
			"Error": msg,
			"Form":  in,
		}))
		return
	}

	ctrl := s.sessions.Get(r.Context(), ClientIDFromContext(r.Context()))
	if err := ctrl.Register(r.Context(), in); err != nil {
		if s.metrics != nil {
			s.metrics.IncAuthFailure("register")
		}
		s.render(w, "register.html", s.pageData(r, map[string]any{
			"Error": registerErrorMessage(err),
			"Form":  in,
		}))
		return
	}

	if s.metrics != nil {
		s.metrics.IncAuthSuccess("register")
	}
	http.Redirect(w, r, afterLoginPath(ctrl.User()), http.StatusSeeOther)
}

func validateRegistration(in platform.RegisterInput) string {
	if in.FirstName == "" || in.LastName == "" {
		return "Please enter your first and last name."
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return "Please enter a valid email address."
	}
	if len(in.Password) < 6 {
		return "Password must be at least 6 characters."
	}
	if onboarding.TotalSteps(in.Role) == 0 {
		return "Please choose whether you are an au pair or a host family."
	}
	return ""
}

func registerErrorMessage(err error) string {
	switch {
	case errors.Is(err, platform.ErrNetwork):
		return "Unable to reach AuPairConnect. Check your connection and try again."
	case errors.Is(err, platform.ErrServer):
		return "Something went wrong. Please try again later."
	default:
		return err.Error()
	}
}

func (s *Server) postLogout(w http.ResponseWriter, r *http.Request) {
	ctrl := s.sessions.Get(r.Context(), ClientIDFromContext(r.Context()))
	ctrl.Logout(r.Context())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
