// Package postgres provides database-backed store backends. The bearer
// token is sealed before it reaches a row, and expiry is enforced on read
// so a lagging cleanup job can never resurrect a stale session or draft.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mudassir044/au-pair-connect-frontend/internal/crypto"
	"github.com/mudassir044/au-pair-connect-frontend/internal/onboarding"
	"github.com/mudassir044/au-pair-connect-frontend/internal/session"
)

// SessionStore persists session records, one row per browser client.
type SessionStore struct {
	pool   *pgxpool.Pool
	cipher *crypto.Cipher
	ttl    time.Duration
}

// NewSessionStore creates a session store. A nil cipher stores tokens in
// the clear.
func NewSessionStore(pool *pgxpool.Pool, cipher *crypto.Cipher, ttl time.Duration) *SessionStore {
	return &SessionStore{pool: pool, cipher: cipher, ttl: ttl}
}

// Load returns the stored record, or (nil, nil) when absent or expired.
func (s *SessionStore) Load(ctx context.Context, clientID string) (*session.Record, error) {
	var sealed string
	var userJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT token_sealed, user_data FROM client_sessions
		 WHERE client_id = $1 AND expires_at > now()`, clientID,
	).Scan(&sealed, &userJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	token, err := s.cipher.Open(sealed)
	if err != nil {
		return nil, fmt.Errorf("unsealing token: %w", err)
	}

	rec := &session.Record{Token: token}
	if err := json.Unmarshal(userJSON, &rec.User); err != nil {
		return nil, fmt.Errorf("unmarshaling user: %w", err)
	}
	return rec, nil
}

// Save upserts the record in a single statement, so the token and user can
// never be persisted independently.
func (s *SessionStore) Save(ctx context.Context, clientID string, rec *session.Record) error {
	sealed, err := s.cipher.Seal(rec.Token)
	if err != nil {
		return fmt.Errorf("sealing token: %w", err)
	}
	userJSON, err := json.Marshal(rec.User)
	if err != nil {
		return fmt.Errorf("marshaling user: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO client_sessions (client_id, token_sealed, user_data, created_at, expires_at)
		 VALUES ($1, $2, $3, now(), now() + $4)
		 ON CONFLICT (client_id) DO UPDATE
		 SET token_sealed = EXCLUDED.token_sealed,
		     user_data = EXCLUDED.user_data,
		     expires_at = EXCLUDED.expires_at`,
		clientID, sealed, userJSON, s.ttl,
	)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Clear removes the record.
func (s *SessionStore) Clear(ctx context.Context, clientID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM client_sessions WHERE client_id = $1`, clientID)
	if err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// CleanExpired deletes all expired session rows.
func (s *SessionStore) CleanExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM client_sessions WHERE expires_at < now()`)
	if err != nil {
		return 0, fmt.Errorf("cleaning expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DraftStore persists onboarding drafts.
type DraftStore struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

// NewDraftStore creates a draft store with the given expiry window.
func NewDraftStore(pool *pgxpool.Pool, ttl time.Duration) *DraftStore {
	return &DraftStore{pool: pool, ttl: ttl}
}

// Load returns the stored draft, or (nil, nil) when absent or expired.
func (s *DraftStore) Load(ctx context.Context, clientID string) (*onboarding.Draft, error) {
	var draftJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT draft FROM onboarding_drafts
		 WHERE client_id = $1 AND expires_at > now()`, clientID,
	).Scan(&draftJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading draft: %w", err)
	}

	d := &onboarding.Draft{}
	if err := json.Unmarshal(draftJSON, d); err != nil {
		return nil, fmt.Errorf("unmarshaling draft: %w", err)
	}
	return d, nil
}

// Save upserts the draft and refreshes its expiry.
func (s *DraftStore) Save(ctx context.Context, clientID string, d *onboarding.Draft) error {
	draftJSON, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshaling draft: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO onboarding_drafts (client_id, draft, updated_at, expires_at)
		 VALUES ($1, $2, now(), now() + $3)
		 ON CONFLICT (client_id) DO UPDATE
		 SET draft = EXCLUDED.draft,
		     updated_at = now(),
		     expires_at = EXCLUDED.expires_at`,
		clientID, draftJSON, s.ttl,
	)
	if err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}
	return nil
}

// Clear removes the draft.
func (s *DraftStore) Clear(ctx context.Context, clientID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM onboarding_drafts WHERE client_id = $1`, clientID)
	if err != nil {
		return fmt.Errorf("clearing draft: %w", err)
	}
	return nil
}

// CleanExpired deletes all expired draft rows.
func (s *DraftStore) CleanExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM onboarding_drafts WHERE expires_at < now()`)
	if err != nil {
		return 0, fmt.Errorf("cleaning expired drafts: %w", err)
	}
	return tag.RowsAffected(), nil
}

// AnalyticsStore persists progress snapshots with a longer expiry than the
// drafts they describe.
type AnalyticsStore struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

// NewAnalyticsStore creates a snapshot store with the given expiry window.
func NewAnalyticsStore(pool *pgxpool.Pool, ttl time.Duration) *AnalyticsStore {
	return &AnalyticsStore{pool: pool, ttl: ttl}
}

// Save upserts the snapshot.
func (s *AnalyticsStore) Save(ctx context.Context, clientID string, snap *onboarding.Snapshot) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO onboarding_analytics (client_id, last_step, completion_pct, recorded_at, expires_at)
		 VALUES ($1, $2, $3, $4, now() + $5)
		 ON CONFLICT (client_id) DO UPDATE
		 SET last_step = EXCLUDED.last_step,
		     completion_pct = EXCLUDED.completion_pct,
		     recorded_at = EXCLUDED.recorded_at,
		     expires_at = EXCLUDED.expires_at`,
		clientID, snap.LastStep, snap.CompletionPercentage, snap.Timestamp, s.ttl,
	)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, or (nil, nil) when absent or expired.
func (s *AnalyticsStore) Load(ctx context.Context, clientID string) (*onboarding.Snapshot, error) {
	snap := &onboarding.Snapshot{}
	err := s.pool.QueryRow(ctx,
		`SELECT last_step, completion_pct, recorded_at FROM onboarding_analytics
		 WHERE client_id = $1 AND expires_at > now()`, clientID,
	).Scan(&snap.LastStep, &snap.CompletionPercentage, &snap.Timestamp)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	return snap, nil
}

// CleanExpired deletes all expired snapshot rows.
func (s *AnalyticsStore) CleanExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM onboarding_analytics WHERE expires_at < now()`)
	if err != nil {
		return 0, fmt.Errorf("cleaning expired snapshots: %w", err)
	}
	return tag.RowsAffected(), nil
}
