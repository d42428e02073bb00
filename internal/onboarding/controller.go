package onboarding

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mudassir044/au-pair-connect-frontend/internal/platform"
	"github.com/mudassir044/au-pair-connect-frontend/internal/session"
)

// DraftStore persists one draft per browser client, with the expiry policy
// owned by the backend.
type DraftStore interface {
	// Load returns the stored draft, or (nil, nil) when none exists.
	Load(ctx context.Context, clientID string) (*Draft, error)
	Save(ctx context.Context, clientID string, d *Draft) error
	Clear(ctx context.Context, clientID string) error
}

// AnalyticsStore persists the derived progress snapshot.
type AnalyticsStore interface {
	Save(ctx context.Context, clientID string, s *Snapshot) error
	Load(ctx context.Context, clientID string) (*Snapshot, error)
}

// MetricsRecorder is an optional interface for funnel metrics.
type MetricsRecorder interface {
	IncStepAdvance(role string, step int)
	IncWizardCompletion(role string)
	IncDraftSave(status string)
}

// SessionUpdater is the piece of the session controller the wizard needs
// to flip the profile-complete flag on completion.
type SessionUpdater interface {
	UpdateUser(ctx context.Context, patch session.UserPatch)
}

// Controller drives one user's wizard. It is cheap to construct per
// request: the draft store is the durable state, and every mutation saves
// immediately. Storage failures are logged and swallowed; the in-memory
// draft stays authoritative for the current request.
type Controller struct {
	clientID  string
	role      platform.Role
	firstName string
	lastName  string

	drafts    DraftStore
	analytics AnalyticsStore
	sessions  SessionUpdater
	metrics   MetricsRecorder
	now       func() time.Time

	draft *Draft
}

// NewController creates a wizard controller for the authenticated user.
// The role is read once here and treated as immutable for the session.
func NewController(clientID string, user *platform.User, drafts DraftStore, analytics AnalyticsStore, sessions SessionUpdater) (*Controller, error) {
	if TotalSteps(user.Role) == 0 {
		return nil, fmt.Errorf("role %q has no onboarding sequence", user.Role)
	}
	return &Controller{
		clientID:  clientID,
		role:      user.Role,
		firstName: user.FirstName,
		lastName:  user.LastName,
		drafts:    drafts,
		analytics: analytics,
		sessions:  sessions,
		now:       time.Now,
	}, nil
}

// SetMetrics sets the optional funnel metrics recorder.
func (c *Controller) SetMetrics(m MetricsRecorder) {
	c.metrics = m
}

// Load restores the persisted draft, or initializes a fresh one seeded
// from the user's known name fields.
func (c *Controller) Load(ctx context.Context) error {
	d, err := c.drafts.Load(ctx, c.clientID)
	if err != nil {
		slog.Warn("draft store read failed", "client", c.clientID, "error", err)
		d = nil
	}
	if d == nil {
		d, err = NewDraft(c.role, c.firstName, c.lastName)
		if err != nil {
			return err
		}
	}
	c.draft = d
	return nil
}

// Draft returns the loaded draft. Only valid after Load.
func (c *Controller) Draft() *Draft {
	return c.draft
}

// UpdatePersonalInfo merges a patch into the shared section and saves.
func (c *Controller) UpdatePersonalInfo(ctx context.Context, patch PersonalInfoPatch) {
	patch.apply(&c.draft.PersonalInfo)
	c.save(ctx)
}

// UpdateAuPairInfo merges a patch into the au pair section and saves.
// Returns an error for drafts of the wrong role.
func (c *Controller) UpdateAuPairInfo(ctx context.Context, patch AuPairInfoPatch) error {
	if c.draft.AuPairInfo == nil {
		return fmt.Errorf("draft role %q has no au pair section", c.draft.Role)
	}
	patch.apply(c.draft.AuPairInfo)
	c.save(ctx)
	return nil
}

// UpdateHostFamilyInfo merges a patch into the host family section and
// saves. Returns an error for drafts of the wrong role.
func (c *Controller) UpdateHostFamilyInfo(ctx context.Context, patch HostFamilyInfoPatch) error {
	if c.draft.HostFamilyInfo == nil {
		return fmt.Errorf("draft role %q has no host family section", c.draft.Role)
	}
	patch.apply(c.draft.HostFamilyInfo)
	c.save(ctx)
	return nil
}

// Advance marks the current step completed and moves forward. On the final
// step it completes the wizard instead: the profile-complete flag is set
// through the session controller and the draft is cleared. Returns true
// when the wizard finished.
func (c *Controller) Advance(ctx context.Context) bool {
	d := c.draft
	d.markCompleted(d.Step)

	if c.metrics != nil {
		c.metrics.IncStepAdvance(string(d.Role), d.Step)
	}

	if d.Step < d.TotalSteps() {
		d.Step++
		c.save(ctx)
		return false
	}

	c.complete(ctx)
	return true
}

// Retreat moves one step back, floored at the first step. Completed steps
// are left untouched.
func (c *Controller) Retreat(ctx context.Context) {
	if c.draft.Step > 1 {
		c.draft.Step--
		c.save(ctx)
	}
}

// complete is terminal: after it runs the draft for this client is gone
// and a later Load starts from scratch.
func (c *Controller) complete(ctx context.Context) {
	done := true
	c.sessions.UpdateUser(ctx, session.UserPatch{ProfileComplete: &done})

	// Final snapshot outlives the draft.
	c.saveSnapshot(ctx)

	if err := c.drafts.Clear(ctx, c.clientID); err != nil {
		slog.Warn("draft store clear failed", "client", c.clientID, "error", err)
	}
	if c.metrics != nil {
		c.metrics.IncWizardCompletion(string(c.draft.Role))
	}
}

// save writes the full draft and a derived analytics snapshot. Failures
// are non-fatal.
func (c *Controller) save(ctx context.Context) {
	if err := c.drafts.Save(ctx, c.clientID, c.draft); err != nil {
		slog.Warn("draft store write failed", "client", c.clientID, "error", err)
		if c.metrics != nil {
			c.metrics.IncDraftSave("error")
		}
	} else if c.metrics != nil {
		c.metrics.IncDraftSave("ok")
	}

	c.saveSnapshot(ctx)
}

func (c *Controller) saveSnapshot(ctx context.Context) {
	snap := &Snapshot{
		LastStep:             c.draft.Step,
		CompletionPercentage: c.draft.CompletionPercentage(),
		Timestamp:            c.now().UTC(),
	}
	if err := c.analytics.Save(ctx, c.clientID, snap); err != nil {
		slog.Debug("analytics snapshot write failed", "client", c.clientID, "error", err)
	}
}
