package web

import (
	"net/http"
	"strings"
	"testing"

	"github.com/mudassir044/au-pair-connect-frontend/internal/platform"
)

func TestRoleHomePath(t *testing.T) {
	tests := []struct {
		role platform.Role
		want string
	}{
		{platform.RoleAuPair, "/dashboard/au-pair"},
		{platform.RoleHostFamily, "/dashboard/host-family"},
		{platform.RoleAdmin, "/dashboard/admin"},
		{platform.Role("other"), "/dashboard/admin"},
	}
	for _, tt := range tests {
		if got := RoleHomePath(tt.role); got != tt.want {
			t.Errorf("RoleHomePath(%q) = %q, want %q", tt.role, got, tt.want)
		}
	}
}

func TestGuardAnonymousRedirectsToLogin(t *testing.T) {
	e := newTestEnv(t)

	rec := e.get("/dashboard/au-pair")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("expected /login, got %q", loc)
	}
	if strings.Contains(rec.Body.String(), "matches") {
		t.Error("protected content must never render for anonymous users")
	}
}

func TestGuardWrongRoleRedirectsToOwnHome(t *testing.T) {
	e := newTestEnv(t)
	e.signIn(t, testUser(platform.RoleHostFamily, true))

	rec := e.get("/dashboard/au-pair")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("wrong role should redirect, not error: got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard/host-family" {
		t.Errorf("expected own dashboard, got %q", loc)
	}
}

func TestGuardAdminOnlyDashboard(t *testing.T) {
	e := newTestEnv(t)
	e.signIn(t, testUser(platform.RoleAuPair, true))

	rec := e.get("/dashboard/admin")
	if loc := rec.Header().Get("Location"); loc != "/dashboard/au-pair" {
		t.Errorf("non-admin should be sent home, got %q", loc)
	}
}

func TestGuardOnboardingExcludesAdmin(t *testing.T) {
	e := newTestEnv(t)
	admin := testUser(platform.RoleAdmin, true)
	e.signIn(t, admin)

	rec := e.get("/onboarding")
	if loc := rec.Header().Get("Location"); loc != "/dashboard/admin" {
		t.Errorf("admins have no wizard, got %q", loc)
	}
}
