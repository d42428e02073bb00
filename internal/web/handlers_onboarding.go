package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/mudassir044/au-pair-connect-frontend/internal/onboarding"
	"github.com/mudassir044/au-pair-connect-frontend/internal/platform"
)

// wizard builds a progression controller for the guarded request and loads
// the draft.
func (s *Server) wizard(r *http.Request) (*onboarding.Controller, error) {
	clientID := ClientIDFromContext(r.Context())
	user := UserFromContext(r.Context())
	sess := s.sessions.Get(r.Context(), clientID)

	oc, err := onboarding.NewController(clientID, user, s.drafts, s.analytics, sess)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		oc.SetMetrics(s.metrics)
	}
	if err := oc.Load(r.Context()); err != nil {
		return nil, err
	}
	return oc, nil
}

func (s *Server) getOnboarding(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user.ProfileComplete {
		http.Redirect(w, r, RoleHomePath(user.Role), http.StatusSeeOther)
		return
	}

	oc, err := s.wizard(r)
	if err != nil {
		http.Redirect(w, r, RoleHomePath(user.Role), http.StatusSeeOther)
		return
	}

	s.renderWizard(w, r, oc.Draft(), "")
}

func (s *Server) renderWizard(w http.ResponseWriter, r *http.Request, d *onboarding.Draft, errMsg string) {
	s.render(w, "onboarding.html", s.pageData(r, map[string]any{
		"Draft":    d,
		"Title":    onboarding.StepTitle(d.Role, d.Step),
		"Total":    d.TotalSteps(),
		"Percent":  d.CompletionPercentage(),
		"IsAuPair": d.Role == platform.RoleAuPair,
		"Error":    errMsg,
	}))
}

// postOnboardingStep applies the submitted section, validates it, and
// advances. The draft is saved even when validation blocks the advance, so
// a half-filled form survives a page reload.
func (s *Server) postOnboardingStep(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	oc, err := s.wizard(r)
	if err != nil {
		http.Redirect(w, r, RoleHomePath(user.Role), http.StatusSeeOther)
		return
	}

	_ = r.ParseForm()
	s.applyStepForm(r, oc)

	if msg := validateStep(oc.Draft()); msg != "" {
		s.renderWizard(w, r, oc.Draft(), msg)
		return
	}

	if finished := oc.Advance(r.Context()); finished {
		s.flashes.Add(ClientIDFromContext(r.Context()), "success", "Your profile is complete!")
		http.Redirect(w, r, RoleHomePath(user.Role), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/onboarding", http.StatusSeeOther)
}

func (s *Server) postOnboardingBack(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	oc, err := s.wizard(r)
	if err != nil {
		http.Redirect(w, r, RoleHomePath(user.Role), http.StatusSeeOther)
		return
	}
	oc.Retreat(r.Context())
	http.Redirect(w, r, "/onboarding", http.StatusSeeOther)
}

// applyStepForm maps the submitted fields of the current step onto the
// draft. Absent fields stay untouched; sections merge, never replace.
func (s *Server) applyStepForm(r *http.Request, oc *onboarding.Controller) {
	d := oc.Draft()

	switch {
	case d.Step == 2:
		oc.UpdatePersonalInfo(r.Context(), onboarding.PersonalInfoPatch{
			FirstName: formStr(r, "firstName"),
			LastName:  formStr(r, "lastName"),
			Age:       formInt(r, "age"),
			Phone:     formStr(r, "phone"),
			Country:   formStr(r, "country"),
			City:      formStr(r, "city"),
		})

	case d.Role == platform.RoleAuPair && d.Step == 3:
		_ = oc.UpdateAuPairInfo(r.Context(), onboarding.AuPairInfoPatch{
			Experience:     formStr(r, "experience"),
			Education:      formStr(r, "education"),
			Certifications: formList(r, "certifications"),
			Languages:      formList(r, "languages"),
		})

	case d.Role == platform.RoleAuPair && d.Step == 4:
		_ = oc.UpdateAuPairInfo(r.Context(), onboarding.AuPairInfoPatch{
			Availability:       formStr(r, "availability"),
			PreferredCountries: formList(r, "preferredCountries"),
			ChildAgePreference: formList(r, "childAgePreference"),
		})

	case d.Role == platform.RoleAuPair && d.Step == 5:
		_ = oc.UpdateAuPairInfo(r.Context(), onboarding.AuPairInfoPatch{
			AboutMe:       formStr(r, "aboutMe"),
			SpecialSkills: formList(r, "specialSkills"),
		})

	case d.Role == platform.RoleHostFamily && d.Step == 3:
		_ = oc.UpdateHostFamilyInfo(r.Context(), onboarding.HostFamilyInfoPatch{
			FamilySize:  formInt(r, "familySize"),
			Children:    formChildren(r, "childrenAges"),
			HousingType: formStr(r, "housingType"),
			AboutFamily: formStr(r, "aboutFamily"),
		})

	case d.Role == platform.RoleHostFamily && d.Step == 4:
		_ = oc.UpdateHostFamilyInfo(r.Context(), onboarding.HostFamilyInfoPatch{
			Requirements: formList(r, "requirements"),
			Lifestyle:    formList(r, "lifestyle"),
			Languages:    formList(r, "languages"),
			WorkSchedule: formStr(r, "workSchedule"),
		})

	case d.Step == d.TotalSteps():
		oc.UpdatePersonalInfo(r.Context(), onboarding.PersonalInfoPatch{
			ProfilePhoto: formStr(r, "profilePhoto"),
		})
	}
}

// validateStep enforces the per-step required fields before an advance.
func validateStep(d *onboarding.Draft) string {
	if d.Step == 2 {
		p := d.PersonalInfo
		if p.Phone == "" || p.Country == "" || p.City == "" {
			return "Phone, country and city are required."
		}
	}
	return ""
}

func formStr(r *http.Request, name string) *string {
	if !r.Form.Has(name) {
		return nil
	}
	v := strings.TrimSpace(r.Form.Get(name))
	return &v
}

func formInt(r *http.Request, name string) *int {
	if !r.Form.Has(name) {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(r.Form.Get(name)))
	if err != nil {
		return nil
	}
	return &n
}

// formList parses a comma-separated field into a slice, dropping empties.
func formList(r *http.Request, name string) *[]string {
	if !r.Form.Has(name) {
		return nil
	}
	parts := strings.Split(r.Form.Get(name), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return &out
}

// formChildren parses comma-separated ages into child entries.
func formChildren(r *http.Request, name string) *[]onboarding.Child {
	ages := formList(r, name)
	if ages == nil {
		return nil
	}
	out := make([]onboarding.Child, 0, len(*ages))
	for _, a := range *ages {
		if n, err := strconv.Atoi(a); err == nil {
			out = append(out, onboarding.Child{Age: n})
		}
	}
	return &out
}
