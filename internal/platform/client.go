package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// MetricsRecorder is an optional interface for recording upstream request
// metrics.
type MetricsRecorder interface {
	IncPlatformRequests(endpoint string, statusCode int)
	ObservePlatformDuration(endpoint string, seconds float64)
	IncPlatformError(errorType, endpoint string)
}

// Client is a thin wrapper over the remote platform HTTP API. It attaches
// the bearer token per call, enforces a fixed request timeout, and maps
// responses onto the client error taxonomy. It holds no session state.
type Client struct {
	baseURL string
	http    *http.Client
	metrics MetricsRecorder
}

// NewClient creates a platform client for the given base URL. All requests
// share the fixed timeout; a timeout surfaces as ErrNetwork like any other
// transport failure.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// SetMetrics sets the optional metrics recorder.
func (c *Client) SetMetrics(m MetricsRecorder) {
	c.metrics = m
}

// apiError is the error body shape the platform returns.
type apiError struct {
	Message string `json:"message"`
}

// do executes one API call. A non-nil out is filled from a 2xx body.
// The token is attached as a bearer header when non-empty.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	endpoint := method + " " + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if c.metrics != nil {
		c.metrics.ObservePlatformDuration(endpoint, time.Since(start).Seconds())
	}
	if err != nil {
		if c.metrics != nil {
			c.metrics.IncPlatformError(classifyTransportError(err), endpoint)
		}
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if c.metrics != nil {
		c.metrics.IncPlatformRequests(endpoint, resp.StatusCode)
	}

	if resp.StatusCode >= 400 {
		return c.mapStatus(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// mapStatus converts a non-2xx response into a taxonomy error.
func (c *Client) mapStatus(resp *http.Response) error {
	var body apiError
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthenticated
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrServer, resp.StatusCode)
	default:
		msg := body.Message
		if msg == "" {
			msg = "something went wrong"
		}
		return fmt.Errorf("platform rejected request: %s (status %d)", msg, resp.StatusCode)
	}
}

// classifyTransportError categorizes a transport-level failure for metrics.
func classifyTransportError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		if netErr.Op == "dial" {
			return "connection_refused"
		}
		return "network"
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "dns"
	}
	return "other"
}

// Login exchanges credentials for a token and user record. A 401 from this
// endpoint means bad credentials, not a dead session.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	payload := map[string]string{"email": email, "password": password}

	var resp AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", "", payload, &resp)
	if errors.Is(err, ErrUnauthenticated) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a new account and returns its first session.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile fetches the user record for the given token. Used to revalidate
// a restored session.
func (c *Client) Profile(ctx context.Context, token string) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/auth/profile", token, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Logout invalidates the token server-side. Best effort: failures are
// logged and never surfaced to the user.
func (c *Client) Logout(ctx context.Context, token string) {
	if err := c.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil); err != nil {
		slog.Debug("platform logout failed", "error", err)
	}
}

// UpdateProfile applies a partial profile update and returns the updated
// user record.
func (c *Client) UpdateProfile(ctx context.Context, token string, patch ProfilePatch) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodPut, "/users/profile", token, patch, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Matches lists suggested counterparts for the authenticated user.
func (c *Client) Matches(ctx context.Context, token string) ([]Match, error) {
	var matches []Match
	if err := c.do(ctx, http.MethodGet, "/users/matches", token, nil, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// ListBookings returns the authenticated user's bookings.
func (c *Client) ListBookings(ctx context.Context, token string) ([]Booking, error) {
	var bookings []Booking
	if err := c.do(ctx, http.MethodGet, "/bookings", token, nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// CreateBooking creates a booking.
func (c *Client) CreateBooking(ctx context.Context, token string, in BookingInput) (*Booking, error) {
	var b Booking
	if err := c.do(ctx, http.MethodPost, "/bookings", token, in, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateBooking updates a booking by id.
func (c *Client) UpdateBooking(ctx context.Context, token, id string, in BookingInput) (*Booking, error) {
	var b Booking
	if err := c.do(ctx, http.MethodPut, "/bookings/"+id, token, in, &b); err != nil {
		return nil, err
	}
	return &b, nil
}
