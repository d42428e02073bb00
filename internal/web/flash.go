package web

import (
	"sync"

	"github.com/mudassir044/au-pair-connect-frontend/internal/session"
)

// Flash is one transient notification shown on the next rendered page.
type Flash struct {
	Kind    string // "success" or "error"
	Message string
}

// FlashStore queues notifications per browser client until the next page
// render consumes them. In-process only; a restart drops pending flashes.
type FlashStore struct {
	mu      sync.Mutex
	pending map[string][]Flash
}

// NewFlashStore creates an empty flash store.
func NewFlashStore() *FlashStore {
	return &FlashStore{pending: make(map[string][]Flash)}
}

// Add queues a flash for the client.
func (f *FlashStore) Add(clientID, kind, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending[clientID] = append(f.pending[clientID], Flash{Kind: kind, Message: message})
}

// Consume returns and clears the client's pending flashes.
func (f *FlashStore) Consume(clientID string) []Flash {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.pending[clientID]
	delete(f.pending, clientID)
	return out
}

// Notifier returns a session notifier bound to one client.
func (f *FlashStore) Notifier(clientID string) session.Notifier {
	return flashNotifier{store: f, clientID: clientID}
}

type flashNotifier struct {
	store    *FlashStore
	clientID string
}

func (n flashNotifier) Success(message string) { n.store.Add(n.clientID, "success", message) }
func (n flashNotifier) Error(message string)   { n.store.Add(n.clientID, "error", message) }
