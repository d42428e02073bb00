package session

import (
	"context"
	"sync"
	"time"
)

// NotifierFactory builds the notifier bound to one browser client, so a
// controller's notifications land in that client's next rendered page.
type NotifierFactory func(clientID string) Notifier

// Manager resolves browser client ids to their session controllers.
// Controllers are created on demand, restored once, and evicted after an
// idle period; recreation after eviction replays the restore path against
// the persistent store, which is what gives sessions their durability.
type Manager struct {
	mu      sync.Mutex
	api     API
	store   Store
	notify  NotifierFactory
	idleTTL time.Duration
	entries map[string]*entry
	now     func() time.Time // injectable clock for testing
}

type entry struct {
	ctrl     *Controller
	lastSeen time.Time
}

// NewManager creates a manager evicting controllers idle for longer than
// idleTTL.
func NewManager(api API, store Store, notify NotifierFactory, idleTTL time.Duration) *Manager {
	return &Manager{
		api:     api,
		store:   store,
		notify:  notify,
		idleTTL: idleTTL,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Get returns the controller for clientID, creating and restoring it on
// first access.
func (m *Manager) Get(ctx context.Context, clientID string) *Controller {
	m.mu.Lock()
	e, ok := m.entries[clientID]
	if ok {
		e.lastSeen = m.now()
		m.mu.Unlock()
		return e.ctrl
	}

	var notify Notifier
	if m.notify != nil {
		notify = m.notify(clientID)
	}
	ctrl := NewController(clientID, m.api, m.store, notify)
	m.entries[clientID] = &entry{ctrl: ctrl, lastSeen: m.now()}
	m.mu.Unlock()

	// Restore outside the manager lock; the controller serializes itself.
	ctrl.Restore(ctx)
	return ctrl
}

// Len returns the number of live controllers.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Sweep evicts controllers idle beyond the TTL and returns how many were
// removed. The persisted session outlives the controller.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.idleTTL)
	removed := 0
	for id, e := range m.entries {
		if e.lastSeen.Before(cutoff) {
			delete(m.entries, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on the given interval until ctx is done.
func (m *Manager) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Sweep()
		case <-ctx.Done():
			return
		}
	}
}
