// Package web serves the site: marketing pages, the auth flow, the
// onboarding wizard and the role dashboards, all rendered server-side.
package web

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mudassir044/au-pair-connect-frontend/internal/messaging"
	"github.com/mudassir044/au-pair-connect-frontend/internal/metrics"
	"github.com/mudassir044/au-pair-connect-frontend/internal/onboarding"
	"github.com/mudassir044/au-pair-connect-frontend/internal/platform"
	"github.com/mudassir044/au-pair-connect-frontend/internal/session"
)

// PlatformAPI is the subset of the platform client the dashboards need.
type PlatformAPI interface {
	Matches(ctx context.Context, token string) ([]platform.Match, error)
	ListBookings(ctx context.Context, token string) ([]platform.Booking, error)
}

// RouterDeps holds all dependencies for the web router.
type RouterDeps struct {
	Sessions  *session.Manager
	Platform  PlatformAPI
	Drafts    onboarding.DraftStore
	Analytics onboarding.AnalyticsStore
	Messages  *messaging.Store
	Flashes   *FlashStore
	Metrics   *metrics.Metrics
}

// Server carries the handler dependencies.
type Server struct {
	sessions  *session.Manager
	platform  PlatformAPI
	drafts    onboarding.DraftStore
	analytics onboarding.AnalyticsStore
	messages  *messaging.Store
	flashes   *FlashStore
	metrics   *metrics.Metrics
	tmpl      *template.Template
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	s := &Server{
		sessions:  deps.Sessions,
		platform:  deps.Platform,
		drafts:    deps.Drafts,
		analytics: deps.Analytics,
		messages:  deps.Messages,
		flashes:   deps.Flashes,
		metrics:   deps.Metrics,
		tmpl:      parseTemplates(),
	}

	r := chi.NewRouter()

	// Global middleware.
	r.Use(chimw.Recoverer)
	r.Use(slogRequestLogger)
	r.Use(secureHeaders)
	r.Use(clientIDMiddleware)
	if s.metrics != nil {
		r.Use(s.httpMetrics)
	}

	// Health check.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
		r.Get("/metrics/summary", s.metrics.Handler())
	}

	// Public pages.
	r.Get("/", s.getLanding)
	r.Get("/how-it-works", s.getHowItWorks)
	r.Get("/login", s.getLogin)
	r.Post("/login", s.postLogin)
	r.Get("/register", s.getRegister)
	r.Post("/register", s.postRegister)
	r.Post("/logout", s.postLogout)

	// Onboarding wizard, for roles that onboard.
	r.Route("/onboarding", func(or chi.Router) {
		or.Use(s.requireRoles(platform.RoleAuPair, platform.RoleHostFamily))
		or.Get("/", s.getOnboarding)
		or.Post("/step", s.postOnboardingStep)
		or.Post("/back", s.postOnboardingBack)
	})

	// Role dashboards.
	r.Route("/dashboard", func(dr chi.Router) {
		dr.With(s.requireRoles(platform.RoleAuPair)).Get("/au-pair", s.getAuPairDashboard)
		dr.With(s.requireRoles(platform.RoleHostFamily)).Get("/host-family", s.getHostFamilyDashboard)
		dr.With(s.requireRoles(platform.RoleAdmin)).Get("/admin", s.getAdminDashboard)

		dr.Route("/messages", func(mr chi.Router) {
			mr.Use(s.requireRoles(platform.RoleAuPair, platform.RoleHostFamily))
			mr.Get("/", s.getMessages)
			mr.Post("/send", s.postMessage)
		})
	})

	return r
}

// slogRequestLogger is a simple structured logging middleware using slog.
func slogRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes", ww.BytesWritten(),
		)
	})
}

// secureHeaders adds security-related response headers.
func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// httpMetrics records request counts and latency against the matched route
// pattern.
func (s *Server) httpMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		pattern := chi.RouteContext(r.Context()).RoutePattern()
		if pattern == "" {
			pattern = "unmatched"
		}
		s.metrics.HTTPRequestsTotal.WithLabelValues(r.Method, pattern, fmt.Sprintf("%d", ww.Status())).Inc()
		s.metrics.HTTPRequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
		s.metrics.SetActiveClientSessions(s.sessions.Len())
	})
}
