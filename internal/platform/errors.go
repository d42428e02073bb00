package platform

import "errors"

// Errors returned by the client, classified so callers can decide between
// surfacing an inline form message, tearing down the session, or showing a
// transient notification.
var (
	// ErrInvalidCredentials is returned by Login when the platform rejects
	// the email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated covers 401-class responses on authenticated calls.
	// The caller must treat the stored session as dead.
	ErrUnauthenticated = errors.New("authentication failed")

	// ErrServer covers 5xx responses. Retryable.
	ErrServer = errors.New("server error")

	// ErrNetwork covers transport-level failures with no response,
	// including timeouts.
	ErrNetwork = errors.New("network error")
)
