package platform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, 2*time.Second), srv
}

func TestLogin_Success(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding login body: %v", err)
		}
		if body["email"] != "anna@example.com" || body["password"] != "hunter2" {
			t.Errorf("unexpected credentials: %v", body)
		}
		_ = json.NewEncoder(w).Encode(AuthResponse{
			Token: "tok-1",
			User:  User{ID: "u1", Email: "anna@example.com", Role: RoleAuPair},
		})
	}))
	defer srv.Close()

	resp, err := c.Login(context.Background(), "anna@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token != "tok-1" {
		t.Errorf("expected token tok-1, got %q", resp.Token)
	}
	if resp.User.Role != RoleAuPair {
		t.Errorf("expected role au_pair, got %q", resp.User.Role)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(apiError{Message: "invalid credentials"})
	}))
	defer srv.Close()

	_, err := c.Login(context.Background(), "anna@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestProfile_BearerHeaderAttached(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("expected bearer header, got %q", got)
		}
		_ = json.NewEncoder(w).Encode(User{ID: "u1", Role: RoleHostFamily})
	}))
	defer srv.Close()

	u, err := c.Profile(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if u.ID != "u1" {
		t.Errorf("expected user u1, got %q", u.ID)
	}
}

func TestProfile_ExpiredToken(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := c.Profile(context.Background(), "stale")
	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestServerErrorClassification(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := c.Matches(context.Background(), "tok-1")
	if !errors.Is(err, ErrServer) {
		t.Errorf("expected ErrServer, got %v", err)
	}
}

func TestNetworkErrorClassification(t *testing.T) {
	// Point at a server that is already gone.
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, 500*time.Millisecond)
	_, err := c.Profile(context.Background(), "tok-1")
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("expected ErrNetwork, got %v", err)
	}
}

func TestBadRequestSurfacesMessage(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(apiError{Message: "email already registered"})
	}))
	defer srv.Close()

	_, err := c.Register(context.Background(), RegisterInput{Email: "anna@example.com"})
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrServer) || errors.Is(err, ErrNetwork) || errors.Is(err, ErrUnauthenticated) {
		t.Errorf("4xx should not map to a taxonomy sentinel: %v", err)
	}
}
