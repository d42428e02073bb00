// Package session owns the authenticated user for one browser client: who
// is logged in, the bearer token that proves it, and the persisted copy
// that survives a restart.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mudassir044/au-pair-connect-frontend/internal/platform"
)

// State is the controller's position in the session lifecycle.
type State int

const (
	StateUnknown State = iota
	StateRestoring
	StateAnonymous
	StateAuthenticated
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateRestoring:
		return "restoring"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Record pairs the bearer token with the user it authenticates. The two are
// persisted as one unit so a token can never exist without its user.
type Record struct {
	Token string        `json:"token"`
	User  platform.User `json:"user"`
}

// Store persists one session record per browser client.
type Store interface {
	// Load returns the stored record, or (nil, nil) when none exists.
	Load(ctx context.Context, clientID string) (*Record, error)
	Save(ctx context.Context, clientID string, rec *Record) error
	Clear(ctx context.Context, clientID string) error
}

// API is the subset of the platform client the controller needs.
type API interface {
	Login(ctx context.Context, email, password string) (*platform.AuthResponse, error)
	Register(ctx context.Context, in platform.RegisterInput) (*platform.AuthResponse, error)
	Profile(ctx context.Context, token string) (*platform.User, error)
	Logout(ctx context.Context, token string)
}

// Notifier receives user-visible transient notifications.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// UserPatch is a partial update merged into the in-memory user record.
type UserPatch struct {
	FirstName       *string
	LastName        *string
	ProfileComplete *bool
}

// Controller is the single authority on "is someone logged in, and as
// whom" for one browser client. All operations serialize on an internal
// mutex; within one client, store writes are strictly ordered.
type Controller struct {
	mu       sync.Mutex
	clientID string
	api      API
	store    Store
	notify   Notifier

	state   State
	user    *platform.User
	token   string
	loading bool
}

// NewController creates a controller in StateUnknown. Callers are expected
// to invoke Restore before consulting state.
func NewController(clientID string, api API, store Store, notify Notifier) *Controller {
	return &Controller{
		clientID: clientID,
		api:      api,
		store:    store,
		notify:   notify,
		state:    StateUnknown,
	}
}

// Restore loads any persisted session and revalidates its token against
// the profile endpoint. On any revalidation failure the stored session is
// cleared and the controller ends up Anonymous. The loading flag is set
// before any work and cleared on every exit path.
func (c *Controller) Restore(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.loading = true
	c.state = StateRestoring
	defer func() { c.loading = false }()

	rec, err := c.store.Load(ctx, c.clientID)
	if err != nil {
		slog.Warn("session store read failed", "client", c.clientID, "error", err)
		c.state = StateAnonymous
		return
	}
	if rec == nil {
		c.state = StateAnonymous
		return
	}

	// Optimistically adopt the stored copy, then revalidate.
	u := rec.User
	c.user = &u
	c.token = rec.Token
	c.state = StateAuthenticated

	fresh, err := c.api.Profile(ctx, rec.Token)
	if err != nil {
		c.clearLocked(ctx)
		return
	}
	c.user = fresh
}

// Login authenticates against the platform. Credential, server and network
// failures are surfaced to the caller so the form can show an inline
// message; on success the session is persisted as a single record.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	resp, err := c.api.Login(ctx, email, password)
	if err != nil {
		return err
	}

	c.adoptLocked(ctx, resp)
	if c.notify != nil {
		c.notify.Success("Welcome back!")
	}
	return nil
}

// Register creates an account and signs in. The controller performs no
// validation of the seed; that is owned by the calling form.
func (c *Controller) Register(ctx context.Context, in platform.RegisterInput) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	resp, err := c.api.Register(ctx, in)
	if err != nil {
		return err
	}

	c.adoptLocked(ctx, resp)
	if c.notify != nil {
		c.notify.Success("Account created successfully!")
	}
	return nil
}

// Logout tears down the session unconditionally. The platform call is best
// effort and never surfaces a failure.
func (c *Controller) Logout(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" {
		c.api.Logout(ctx, c.token)
	}
	c.clearLocked(ctx)
	if c.notify != nil {
		c.notify.Success("Logged out successfully")
	}
}

// Invalidate clears the session without touching the platform. The request
// layer calls this on any 401-class response.
func (c *Controller) Invalidate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked(ctx)
}

// UpdateUser merges a partial record into the in-memory user and
// re-persists the merged result. No-op when nobody is logged in.
func (c *Controller) UpdateUser(ctx context.Context, patch UserPatch) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user == nil {
		return
	}
	if patch.FirstName != nil {
		c.user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		c.user.LastName = *patch.LastName
	}
	if patch.ProfileComplete != nil {
		c.user.ProfileComplete = *patch.ProfileComplete
	}

	if err := c.store.Save(ctx, c.clientID, &Record{Token: c.token, User: *c.user}); err != nil {
		// In-memory state stays authoritative for this process lifetime.
		slog.Warn("session store write failed", "client", c.clientID, "error", err)
	}
}

// adoptLocked installs a fresh auth response and persists it.
func (c *Controller) adoptLocked(ctx context.Context, resp *platform.AuthResponse) {
	u := resp.User
	c.user = &u
	c.token = resp.Token
	c.state = StateAuthenticated

	if err := c.store.Save(ctx, c.clientID, &Record{Token: resp.Token, User: resp.User}); err != nil {
		slog.Warn("session store write failed", "client", c.clientID, "error", err)
	}
}

// clearLocked resets to Anonymous and removes the persisted record.
func (c *Controller) clearLocked(ctx context.Context) {
	if err := c.store.Clear(ctx, c.clientID); err != nil {
		slog.Warn("session store clear failed", "client", c.clientID, "error", err)
	}
	c.user = nil
	c.token = ""
	c.state = StateAnonymous
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Loading reports whether a restore is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// User returns a copy of the authenticated user, or nil.
func (c *Controller) User() *platform.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// Token returns the current bearer token, or empty.
func (c *Controller) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// ErrNotAuthenticated is returned by helpers that require a signed-in user.
var ErrNotAuthenticated = errors.New("not authenticated")

// RequireUser returns the authenticated user or ErrNotAuthenticated.
func (c *Controller) RequireUser() (*platform.User, error) {
	u := c.User()
	if u == nil {
		return nil, ErrNotAuthenticated
	}
	return u, nil
}
