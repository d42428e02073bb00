// Package memory provides in-process store backends with per-entry expiry.
// They are the default when no database is configured, and what tests
// inject.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mudassir044/au-pair-connect-frontend/internal/onboarding"
	"github.com/mudassir044/au-pair-connect-frontend/internal/session"
)

// SessionStore keeps session records in a mutex-guarded map.
type SessionStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time // injectable clock for testing
	items map[string]sessionItem
}

type sessionItem struct {
	rec       session.Record
	expiresAt time.Time
}

// NewSessionStore creates a session store whose entries expire after ttl.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]sessionItem),
	}
}

// Load returns the stored record, or (nil, nil) when absent or expired.
func (s *SessionStore) Load(_ context.Context, clientID string) (*session.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[clientID]
	if !ok || s.now().After(item.expiresAt) {
		delete(s.items, clientID)
		return nil, nil
	}
	rec := item.rec
	return &rec, nil
}

// Save stores the record and refreshes its expiry.
func (s *SessionStore) Save(_ context.Context, clientID string, rec *session.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[clientID] = sessionItem{rec: *rec, expiresAt: s.now().Add(s.ttl)}
	return nil
}

// Clear removes the record.
func (s *SessionStore) Clear(_ context.Context, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, clientID)
	return nil
}

// DraftStore keeps onboarding drafts in a mutex-guarded map.
type DraftStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]draftItem
}

type draftItem struct {
	draft     onboarding.Draft
	expiresAt time.Time
}

// NewDraftStore creates a draft store whose entries expire after ttl.
func NewDraftStore(ttl time.Duration) *DraftStore {
	return &DraftStore{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]draftItem),
	}
}

// Load returns the stored draft, or (nil, nil) when absent or expired.
func (s *DraftStore) Load(_ context.Context, clientID string) (*onboarding.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[clientID]
	if !ok || s.now().After(item.expiresAt) {
		delete(s.items, clientID)
		return nil, nil
	}
	d := item.draft
	return &d, nil
}

// Save stores the draft and refreshes its expiry.
func (s *DraftStore) Save(_ context.Context, clientID string, d *onboarding.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[clientID] = draftItem{draft: *d, expiresAt: s.now().Add(s.ttl)}
	return nil
}

// Clear removes the draft.
func (s *DraftStore) Clear(_ context.Context, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, clientID)
	return nil
}

// AnalyticsStore keeps progress snapshots in a mutex-guarded map.
type AnalyticsStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]snapshotItem
}

type snapshotItem struct {
	snap      onboarding.Snapshot
	expiresAt time.Time
}

// NewAnalyticsStore creates a snapshot store whose entries expire after ttl.
func NewAnalyticsStore(ttl time.Duration) *AnalyticsStore {
	return &AnalyticsStore{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]snapshotItem),
	}
}

// Save stores the snapshot and refreshes its expiry.
func (s *AnalyticsStore) Save(_ context.Context, clientID string, snap *onboarding.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[clientID] = snapshotItem{snap: *snap, expiresAt: s.now().Add(s.ttl)}
	return nil
}

// Load returns the stored snapshot, or (nil, nil) when absent or expired.
func (s *AnalyticsStore) Load(_ context.Context, clientID string) (*onboarding.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[clientID]
	if !ok || s.now().After(item.expiresAt) {
		delete(s.items, clientID)
		return nil, nil
	}
	snap := item.snap
	return &snap, nil
}
