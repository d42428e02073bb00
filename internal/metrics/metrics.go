package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds all Prometheus metric collectors for the web client.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics for the pages we serve.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Upstream platform API metrics.
	PlatformRequestsTotal   *prometheus.CounterVec
	PlatformRequestDuration *prometheus.HistogramVec
	PlatformErrorsTotal     *prometheus.CounterVec

	// Auth metrics.
	AuthFailuresTotal  *prometheus.CounterVec
	AuthSuccessesTotal *prometheus.CounterVec

	// Onboarding funnel metrics.
	OnboardingStepAdvancesTotal *prometheus.CounterVec
	OnboardingCompletionsTotal  *prometheus.CounterVec
	DraftSavesTotal             *prometheus.CounterVec

	// Session metrics.
	ActiveClientSessions prometheus.Gauge

	// Server lifecycle.
	ServerStartTime prometheus.Gauge
}

// New creates and registers all Prometheus metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aupair_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aupair_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path_pattern"}),

		PlatformRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aupair_platform_requests_total",
			Help: "Total number of requests sent to the platform API.",
		}, []string{"endpoint", "status_code"}),

		PlatformRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aupair_platform_request_duration_seconds",
			Help:    "Platform API request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		PlatformErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aupair_platform_errors_total",
			Help: "Total number of platform API request errors by error type.",
		}, []string{"error_type", "endpoint"}),

		AuthFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aupair_auth_failures_total",
			Help: "Total number of failed sign-in attempts.",
		}, []string{"flow"}),

		AuthSuccessesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aupair_auth_successes_total",
			Help: "Total number of successful sign-ins.",
		}, []string{"flow"}),

		OnboardingStepAdvancesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aupair_onboarding_step_advances_total",
			Help: "Total number of completed onboarding steps.",
		}, []string{"role", "step"}),

		OnboardingCompletionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aupair_onboarding_completions_total",
			Help: "Total number of completed onboarding wizards.",
		}, []string{"role"}),

		DraftSavesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aupair_onboarding_draft_saves_total",
			Help: "Total number of onboarding draft save attempts.",
		}, []string{"status"}),

		ActiveClientSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "aupair_active_client_sessions",
			Help: "Number of live in-process session controllers.",
		}),

		ServerStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "aupair_server_start_time_seconds",
			Help: "Unix timestamp when the server started.",
		}),
	}

	// Register all metrics.
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.PlatformRequestsTotal,
		m.PlatformRequestDuration,
		m.PlatformErrorsTotal,
		m.AuthFailuresTotal,
		m.AuthSuccessesTotal,
		m.OnboardingStepAdvancesTotal,
		m.OnboardingCompletionsTotal,
		m.DraftSavesTotal,
		m.ActiveClientSessions,
		m.ServerStartTime,
	)

	// Set server start time.
	m.ServerStartTime.Set(float64(time.Now().Unix()))

	// Register Go runtime and process collectors.
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// Registry returns the private Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterDBPoolCollector registers a custom DB pool stats collector.
func (m *Metrics) RegisterDBPoolCollector(statFunc DBPoolStatFunc) {
	m.registry.MustRegister(NewDBPoolCollector(statFunc))
}

// IncPlatformRequests increments the platform request counter.
func (m *Metrics) IncPlatformRequests(endpoint string, statusCode int) {
	m.PlatformRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", statusCode)).Inc()
}

// ObservePlatformDuration records the platform request duration.
func (m *Metrics) ObservePlatformDuration(endpoint string, seconds float64) {
	m.PlatformRequestDuration.WithLabelValues(endpoint).Observe(seconds)
}

// IncPlatformError increments the platform error counter with error type
// classification.
func (m *Metrics) IncPlatformError(errorType, endpoint string) {
	m.PlatformErrorsTotal.WithLabelValues(errorType, endpoint).Inc()
}

// IncAuthFailure increments the auth failure counter for the given flow.
func (m *Metrics) IncAuthFailure(flow string) {
	m.AuthFailuresTotal.WithLabelValues(flow).Inc()
}

// IncAuthSuccess increments the auth success counter for the given flow.
func (m *Metrics) IncAuthSuccess(flow string) {
	m.AuthSuccessesTotal.WithLabelValues(flow).Inc()
}

// IncStepAdvance increments the funnel counter for a completed step.
func (m *Metrics) IncStepAdvance(role string, step int) {
	m.OnboardingStepAdvancesTotal.WithLabelValues(role, fmt.Sprintf("%d", step)).Inc()
}

// IncWizardCompletion increments the completed-wizard counter.
func (m *Metrics) IncWizardCompletion(role string) {
	m.OnboardingCompletionsTotal.WithLabelValues(role).Inc()
}

// IncDraftSave increments the draft save counter, status "ok" or "error".
func (m *Metrics) IncDraftSave(status string) {
	m.DraftSavesTotal.WithLabelValues(status).Inc()
}

// SetActiveClientSessions records the live controller count.
func (m *Metrics) SetActiveClientSessions(n int) {
	m.ActiveClientSessions.Set(float64(n))
}
