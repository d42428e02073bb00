package onboarding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mudassir044/au-pair-connect-frontend/internal/platform"
	"github.com/mudassir044/au-pair-connect-frontend/internal/session"
)

type fakeDraftStore struct {
	drafts  map[string]*Draft
	saveErr error
}

func newFakeDraftStore() *fakeDraftStore {
	return &fakeDraftStore{drafts: make(map[string]*Draft)}
}

func (s *fakeDraftStore) Load(_ context.Context, clientID string) (*Draft, error) {
	d, ok := s.drafts[clientID]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (s *fakeDraftStore) Save(_ context.Context, clientID string, d *Draft) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	cp := *d
	s.drafts[clientID] = &cp
	return nil
}

func (s *fakeDraftStore) Clear(_ context.Context, clientID string) error {
	delete(s.drafts, clientID)
	return nil
}

type fakeAnalyticsStore struct {
	last *Snapshot
}

func (s *fakeAnalyticsStore) Save(_ context.Context, _ string, snap *Snapshot) error {
	cp := *snap
	s.last = &cp
	return nil
}

func (s *fakeAnalyticsStore) Load(_ context.Context, _ string) (*Snapshot, error) {
	return s.last, nil
}

type fakeSessionUpdater struct {
	patches []session.UserPatch
}

func (s *fakeSessionUpdater) UpdateUser(_ context.Context, patch session.UserPatch) {
	s.patches = append(s.patches, patch)
}

func auPairUser() *platform.User {
	return &platform.User{ID: "u1", FirstName: "Anna", LastName: "Berg", Role: platform.RoleAuPair}
}

func hostUser() *platform.User {
	return &platform.User{ID: "u2", FirstName: "Maria", LastName: "Klein", Role: platform.RoleHostFamily}
}

func newTestController(t *testing.T, user *platform.User) (*Controller, *fakeDraftStore, *fakeAnalyticsStore, *fakeSessionUpdater) {
	t.Helper()
	drafts := newFakeDraftStore()
	analytics := &fakeAnalyticsStore{}
	sessions := &fakeSessionUpdater{}

	c, err := NewController("c1", user, drafts, analytics, sessions)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c, drafts, analytics, sessions
}

func TestLoad_FreshDraftSeededFromUser(t *testing.T) {
	c, _, _, _ := newTestController(t, auPairUser())

	d := c.Draft()
	if d.Step != 1 {
		t.Errorf("fresh draft should start at step 1, got %d", d.Step)
	}
	if len(d.CompletedSteps) != 0 {
		t.Errorf("fresh draft should have no completed steps, got %v", d.CompletedSteps)
	}
	if d.PersonalInfo.FirstName != "Anna" || d.PersonalInfo.LastName != "Berg" {
		t.Errorf("personal info should be seeded from the user, got %+v", d.PersonalInfo)
	}
	if d.AuPairInfo == nil || d.HostFamilyInfo != nil {
		t.Error("an au pair draft carries exactly the au pair section")
	}
}

func TestLoad_RestoresPersistedDraft(t *testing.T) {
	drafts := newFakeDraftStore()
	saved, _ := NewDraft(platform.RoleAuPair, "Anna", "Berg")
	saved.Step = 3
	saved.CompletedSteps = []int{1, 2}
	saved.PersonalInfo.Phone = "+49 1234"
	drafts.drafts["c1"] = saved

	c, err := NewController("c1", auPairUser(), drafts, &fakeAnalyticsStore{}, &fakeSessionUpdater{})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	d := c.Draft()
	if d.Step != 3 {
		t.Errorf("expected restored step 3, got %d", d.Step)
	}
	if d.PersonalInfo.Phone != "+49 1234" {
		t.Errorf("expected restored phone, got %q", d.PersonalInfo.Phone)
	}
}

func TestTotalSteps(t *testing.T) {
	if got := TotalSteps(platform.RoleAuPair); got != 6 {
		t.Errorf("au_pair should have 6 steps, got %d", got)
	}
	if got := TotalSteps(platform.RoleHostFamily); got != 5 {
		t.Errorf("host_family should have 5 steps, got %d", got)
	}
	if got := TotalSteps(platform.RoleAdmin); got != 0 {
		t.Errorf("admin should have no steps, got %d", got)
	}
}

func TestAdvance_StaysWithinBounds(t *testing.T) {
	for _, user := range []*platform.User{auPairUser(), hostUser()} {
		c, _, _, _ := newTestController(t, user)
		total := c.Draft().TotalSteps()

		for i := 0; i < total+3; i++ {
			step := c.Draft().Step
			if step < 1 || step > total {
				t.Fatalf("role %s: step %d out of bounds [1,%d]", user.Role, step, total)
			}
			if c.Advance(context.Background()) {
				break
			}
		}
	}
}

func TestAdvance_CompletedStepsDeduplicated(t *testing.T) {
	c, _, _, _ := newTestController(t, auPairUser())

	c.Advance(context.Background()) // completes 1, now at 2
	c.Retreat(context.Background()) // back to 1
	c.Advance(context.Background()) // completes 1 again
	c.Advance(context.Background()) // completes 2

	d := c.Draft()
	seen := make(map[int]bool)
	for _, s := range d.CompletedSteps {
		if seen[s] {
			t.Fatalf("duplicate completed step %d in %v", s, d.CompletedSteps)
		}
		seen[s] = true
	}
	if !seen[1] || !seen[2] {
		t.Errorf("expected steps 1 and 2 completed, got %v", d.CompletedSteps)
	}
}

func TestRetreat_FlooredAtOne(t *testing.T) {
	c, _, _, _ := newTestController(t, hostUser())

	c.Retreat(context.Background())
	if got := c.Draft().Step; got != 1 {
		t.Errorf("retreat at step 1 must stay at 1, got %d", got)
	}
}

func TestAdvance_FinalStepCompletes(t *testing.T) {
	c, drafts, _, sessions := newTestController(t, hostUser())

	var finished bool
	for i := 0; i < 10 && !finished; i++ {
		finished = c.Advance(context.Background())
	}
	if !finished {
		t.Fatal("wizard should finish after advancing through all steps")
	}

	if len(sessions.patches) != 1 || sessions.patches[0].ProfileComplete == nil || !*sessions.patches[0].ProfileComplete {
		t.Errorf("completion must set the profile-complete flag, got %+v", sessions.patches)
	}
	if _, ok := drafts.drafts["c1"]; ok {
		t.Error("draft should be cleared on completion")
	}

	// A fresh load starts from an empty draft.
	c2, err := NewController("c1", hostUser(), drafts, &fakeAnalyticsStore{}, &fakeSessionUpdater{})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	if err := c2.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := c2.Draft().Step; got != 1 {
		t.Errorf("post-completion load should yield a fresh draft, got step %d", got)
	}
}

func TestUpdatePersonalInfo_MergesNotReplaces(t *testing.T) {
	c, _, _, _ := newTestController(t, auPairUser())

	phone := "+49 1234"
	c.UpdatePersonalInfo(context.Background(), PersonalInfoPatch{Phone: &phone})
	city := "Berlin"
	c.UpdatePersonalInfo(context.Background(), PersonalInfoPatch{City: &city})

	info := c.Draft().PersonalInfo
	if info.Phone != "+49 1234" || info.City != "Berlin" {
		t.Errorf("patches must merge, got %+v", info)
	}
	if info.FirstName != "Anna" {
		t.Error("seeded fields must survive patching")
	}
}

func TestUpdateSection_WrongRole(t *testing.T) {
	c, _, _, _ := newTestController(t, auPairUser())

	size := 4
	if err := c.UpdateHostFamilyInfo(context.Background(), HostFamilyInfoPatch{FamilySize: &size}); err == nil {
		t.Error("au pair draft must reject host family patches")
	}

	c2, _, _, _ := newTestController(t, hostUser())
	about := "I love kids"
	if err := c2.UpdateAuPairInfo(context.Background(), AuPairInfoPatch{AboutMe: &about}); err == nil {
		t.Error("host family draft must reject au pair patches")
	}
}

func TestSave_StorageFailureIsSwallowed(t *testing.T) {
	c, drafts, _, _ := newTestController(t, auPairUser())
	drafts.saveErr = errors.New("quota exceeded")

	phone := "+49 1234"
	c.UpdatePersonalInfo(context.Background(), PersonalInfoPatch{Phone: &phone})

	// In-memory draft stays authoritative.
	if got := c.Draft().PersonalInfo.Phone; got != "+49 1234" {
		t.Errorf("in-memory draft must keep the change, got %q", got)
	}
}

func TestAnalyticsSnapshot(t *testing.T) {
	c, _, analytics, _ := newTestController(t, auPairUser())
	c.now = func() time.Time { return time.Unix(1700000000, 0) }

	c.Advance(context.Background()) // one of six steps completed

	snap := analytics.last
	if snap == nil {
		t.Fatal("every save should write a snapshot")
	}
	if snap.LastStep != 2 {
		t.Errorf("expected lastStep 2, got %d", snap.LastStep)
	}
	if snap.CompletionPercentage != 17 { // round(100*1/6)
		t.Errorf("expected 17%%, got %d", snap.CompletionPercentage)
	}
	if snap.Timestamp.IsZero() {
		t.Error("snapshot should carry a timestamp")
	}
}

func TestNewController_RejectsAdmin(t *testing.T) {
	admin := &platform.User{ID: "u3", Role: platform.RoleAdmin}
	if _, err := NewController("c1", admin, newFakeDraftStore(), &fakeAnalyticsStore{}, &fakeSessionUpdater{}); err == nil {
		t.Error("admin role has no onboarding sequence")
	}
}
