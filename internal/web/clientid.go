package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
)

// contextKey is an unexported type for context keys in this package.
type contextKey int

const (
	clientIDContextKey contextKey = iota
	userContextKey
)

const clientCookieName = "aupair_client"

// ClientIDFromContext extracts the browser client id from the context.
func ClientIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(clientIDContextKey).(string); ok {
		return v
	}
	return ""
}

// clientIDMiddleware ensures every browser carries an opaque client id
// cookie. The id is the key for everything persisted on this side: the
// session record, the onboarding draft and the analytics snapshot.
func clientIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(clientCookieName); err == nil {
			id = c.Value
		}
		if id == "" {
			id = generateID()
			http.SetCookie(w, &http.Cookie{
				Name:     clientCookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), clientIDContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// generateID produces a 32-character hex string from 16 random bytes.
func generateID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
