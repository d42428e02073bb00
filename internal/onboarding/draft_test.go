package onboarding

import (
	"testing"

	"github.com/mudassir044/au-pair-connect-frontend/internal/platform"
)

func TestStepTitle(t *testing.T) {
	cases := []struct {
		role platform.Role
		step int
		want string
	}{
		{platform.RoleAuPair, 1, "Welcome"},
		{platform.RoleAuPair, 3, "Experience"},
		{platform.RoleAuPair, 6, "Photo"},
		{platform.RoleHostFamily, 3, "Family Information"},
		{platform.RoleHostFamily, 5, "Photo"},
		{platform.RoleHostFamily, 6, ""},
		{platform.RoleAuPair, 0, ""},
		{platform.RoleAdmin, 1, ""},
	}
	for _, tc := range cases {
		if got := StepTitle(tc.role, tc.step); got != tc.want {
			t.Errorf("StepTitle(%s, %d) = %q, want %q", tc.role, tc.step, got, tc.want)
		}
	}
}

func TestNewDraft_UnknownRole(t *testing.T) {
	if _, err := NewDraft(platform.Role("robot"), "", ""); err == nil {
		t.Error("expected error for a role with no sequence")
	}
}

func TestCompletionPercentage(t *testing.T) {
	d, err := NewDraft(platform.RoleHostFamily, "Maria", "Klein")
	if err != nil {
		t.Fatalf("NewDraft: %v", err)
	}

	if got := d.CompletionPercentage(); got != 0 {
		t.Errorf("empty draft should be 0%%, got %d", got)
	}

	d.markCompleted(1)
	d.markCompleted(2)
	if got := d.CompletionPercentage(); got != 40 {
		t.Errorf("2 of 5 steps should be 40%%, got %d", got)
	}

	for i := 1; i <= 5; i++ {
		d.markCompleted(i)
	}
	if got := d.CompletionPercentage(); got != 100 {
		t.Errorf("all steps should be 100%%, got %d", got)
	}
}

func TestMarkCompleted_Dedup(t *testing.T) {
	d, err := NewDraft(platform.RoleAuPair, "Anna", "Berg")
	if err != nil {
		t.Fatalf("NewDraft: %v", err)
	}

	d.markCompleted(2)
	d.markCompleted(2)
	d.markCompleted(2)

	if len(d.CompletedSteps) != 1 {
		t.Errorf("expected one entry, got %v", d.CompletedSteps)
	}
}
