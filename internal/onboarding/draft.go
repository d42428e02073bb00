// Package onboarding drives a new user through the role-specific profile
// wizard and keeps the partially filled draft durable across page loads.
package onboarding

import (
	"fmt"
	"slices"
	"time"

	"github.com/mudassir044/au-pair-connect-frontend/internal/platform"
)

// Step counts per role. The sequence is fixed:
//
//	au_pair:     Welcome, Personal Information, Experience, Preferences, About Me, Photo
//	host_family: Welcome, Personal Information, Family Information, Requirements, Photo
const (
	auPairSteps     = 6
	hostFamilySteps = 5
)

// TotalSteps returns the number of wizard steps for the role, or 0 for
// roles that never onboard.
func TotalSteps(role platform.Role) int {
	switch role {
	case platform.RoleAuPair:
		return auPairSteps
	case platform.RoleHostFamily:
		return hostFamilySteps
	default:
		return 0
	}
}

var auPairTitles = []string{
	"Welcome", "Personal Information", "Experience", "Preferences", "About Me", "Photo",
}

var hostFamilyTitles = []string{
	"Welcome", "Personal Information", "Family Information", "Requirements", "Photo",
}

// StepTitle returns the display title for a step, or empty when out of range.
func StepTitle(role platform.Role, step int) string {
	var titles []string
	switch role {
	case platform.RoleAuPair:
		titles = auPairTitles
	case platform.RoleHostFamily:
		titles = hostFamilyTitles
	default:
		return ""
	}
	if step < 1 || step > len(titles) {
		return ""
	}
	return titles[step-1]
}

// PersonalInfo is the section shared by both roles.
type PersonalInfo struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Age          int    `json:"age,omitempty"`
	Phone        string `json:"phone"`
	Country      string `json:"country"`
	City         string `json:"city"`
	ProfilePhoto string `json:"profilePhoto,omitempty"`
}

// AuPairInfo holds the au pair specific sections.
type AuPairInfo struct {
	Experience         string   `json:"experience"`
	Languages          []string `json:"languages"`
	Education          string   `json:"education"`
	Certifications     []string `json:"certifications"`
	Availability       string   `json:"availability"`
	PreferredCountries []string `json:"preferredCountries"`
	ChildAgePreference []string `json:"childAgePreference"`
	SpecialSkills      []string `json:"specialSkills"`
	AboutMe            string   `json:"aboutMe"`
}

// Child is one child entry in a host family profile.
type Child struct {
	Age       int      `json:"age"`
	Interests []string `json:"interests"`
}

// HostFamilyInfo holds the host family specific sections.
type HostFamilyInfo struct {
	FamilySize   int      `json:"familySize"`
	Children     []Child  `json:"children"`
	HousingType  string   `json:"housingType"`
	Lifestyle    []string `json:"lifestyle"`
	Requirements []string `json:"requirements"`
	Languages    []string `json:"languages"`
	AboutFamily  string   `json:"aboutFamily"`
	WorkSchedule string   `json:"workSchedule"`
}

// Draft is the in-progress onboarding record for one user. Exactly one of
// AuPairInfo / HostFamilyInfo is set, matching Role; the role is fixed at
// creation and never changes for the life of the draft.
type Draft struct {
	Role           platform.Role   `json:"role"`
	Step           int             `json:"step"`
	CompletedSteps []int           `json:"completedSteps"`
	PersonalInfo   PersonalInfo    `json:"personalInfo"`
	AuPairInfo     *AuPairInfo     `json:"auPairInfo,omitempty"`
	HostFamilyInfo *HostFamilyInfo `json:"hostFamilyInfo,omitempty"`
}

// NewDraft creates an empty draft for the role, seeding the name fields
// from what the platform already knows about the user.
func NewDraft(role platform.Role, firstName, lastName string) (*Draft, error) {
	if TotalSteps(role) == 0 {
		return nil, fmt.Errorf("role %q has no onboarding sequence", role)
	}

	d := &Draft{
		Role: role,
		Step: 1,
		PersonalInfo: PersonalInfo{
			FirstName: firstName,
			LastName:  lastName,
		},
	}
	switch role {
	case platform.RoleAuPair:
		d.AuPairInfo = &AuPairInfo{}
	case platform.RoleHostFamily:
		d.HostFamilyInfo = &HostFamilyInfo{}
	}
	return d, nil
}

// TotalSteps returns the step count for the draft's role.
func (d *Draft) TotalSteps() int {
	return TotalSteps(d.Role)
}

// markCompleted records the step, keeping the set deduplicated.
func (d *Draft) markCompleted(step int) {
	if slices.Contains(d.CompletedSteps, step) {
		return
	}
	d.CompletedSteps = append(d.CompletedSteps, step)
}

// CompletionPercentage is the rounded share of completed steps.
func (d *Draft) CompletionPercentage() int {
	total := d.TotalSteps()
	if total == 0 {
		return 0
	}
	return int(float64(len(d.CompletedSteps))/float64(total)*100 + 0.5)
}

// PersonalInfoPatch is a partial update for the shared section. Nil fields
// leave the existing value untouched.
type PersonalInfoPatch struct {
	FirstName    *string
	LastName     *string
	Age          *int
	Phone        *string
	Country      *string
	City         *string
	ProfilePhoto *string
}

func (p PersonalInfoPatch) apply(info *PersonalInfo) {
	if p.FirstName != nil {
		info.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		info.LastName = *p.LastName
	}
	if p.Age != nil {
		info.Age = *p.Age
	}
	if p.Phone != nil {
		info.Phone = *p.Phone
	}
	if p.Country != nil {
		info.Country = *p.Country
	}
	if p.City != nil {
		info.City = *p.City
	}
	if p.ProfilePhoto != nil {
		info.ProfilePhoto = *p.ProfilePhoto
	}
}

// AuPairInfoPatch is a partial update for the au pair sections.
type AuPairInfoPatch struct {
	Experience         *string
	Languages          *[]string
	Education          *string
	Certifications     *[]string
	Availability       *string
	PreferredCountries *[]string
	ChildAgePreference *[]string
	SpecialSkills      *[]string
	AboutMe            *string
}

func (p AuPairInfoPatch) apply(info *AuPairInfo) {
	if p.Experience != nil {
		info.Experience = *p.Experience
	}
	if p.Languages != nil {
		info.Languages = *p.Languages
	}
	if p.Education != nil {
		info.Education = *p.Education
	}
	if p.Certifications != nil {
		info.Certifications = *p.Certifications
	}
	if p.Availability != nil {
		info.Availability = *p.Availability
	}
	if p.PreferredCountries != nil {
		info.PreferredCountries = *p.PreferredCountries
	}
	if p.ChildAgePreference != nil {
		info.ChildAgePreference = *p.ChildAgePreference
	}
	if p.SpecialSkills != nil {
		info.SpecialSkills = *p.SpecialSkills
	}
	if p.AboutMe != nil {
		info.AboutMe = *p.AboutMe
	}
}

// HostFamilyInfoPatch is a partial update for the host family sections.
type HostFamilyInfoPatch struct {
	FamilySize   *int
	Children     *[]Child
	HousingType  *string
	Lifestyle    *[]string
	Requirements *[]string
	Languages    *[]string
	AboutFamily  *string
	WorkSchedule *string
}

func (p HostFamilyInfoPatch) apply(info *HostFamilyInfo) {
	if p.FamilySize != nil {
		info.FamilySize = *p.FamilySize
	}
	if p.Children != nil {
		info.Children = *p.Children
	}
	if p.HousingType != nil {
		info.HousingType = *p.HousingType
	}
	if p.Lifestyle != nil {
		info.Lifestyle = *p.Lifestyle
	}
	if p.Requirements != nil {
		info.Requirements = *p.Requirements
	}
	if p.Languages != nil {
		info.Languages = *p.Languages
	}
	if p.AboutFamily != nil {
		info.AboutFamily = *p.AboutFamily
	}
	if p.WorkSchedule != nil {
		info.WorkSchedule = *p.WorkSchedule
	}
}

// Snapshot is the derived, best-effort analytics record written alongside
// every draft save. Not authoritative.
type Snapshot struct {
	LastStep             int       `json:"lastStep"`
	CompletionPercentage int       `json:"completionPercentage"`
	Timestamp            time.Time `json:"timestamp"`
}
