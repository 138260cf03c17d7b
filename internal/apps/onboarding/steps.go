package onboarding

import (
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
)

// Step keys double as the client route segment under /on-boarding/.
const (
	StepPersonalInformation     = "personal-information"
	StepAcademicQualifications  = "academic-qualifications"
	StepEmploymentHistory       = "employment-history"
	StepSkillsAndInterests      = "skills-and-interests"
	StepMyBio                   = "my-bio"
	StepOrganisationInformation = "organisation-information"
	StepComplete                = "complete"
)

// RoleSelectionPath is where a user without a role is sent.
const RoleSelectionPath = "/user-role"

type Step struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

var orgSteps = []Step{
	{StepPersonalInformation, "Personal Information"},
	{StepOrganisationInformation, "Organisation Information"},
	{StepComplete, "Complete on Process"},
}

var defaultSteps = []Step{
	{StepPersonalInformation, "Personal Information"},
	{StepAcademicQualifications, "Academic Qualifications"},
	{StepEmploymentHistory, "Employment History"},
	{StepSkillsAndInterests, "Skills and Interests"},
	{StepMyBio, "My Bio"},
	{StepComplete, "Complete on Process"},
}

// Sequence returns the onboarding steps for role.
func Sequence(role models.Role) ([]Step, error) {
	var steps []Step
	switch role {
	case models.RoleOrg:
		steps = orgSteps
	case models.RoleMentee, models.RoleMentor, models.RoleAdmin, models.RoleGuest:
		steps = defaultSteps
	default:
		return nil, models.ErrUnknownRole
	}
	out := make([]Step, len(steps))
	copy(out, steps)
	return out, nil
}

// Position is where a user stands in their sequence. While the role is
// unknown it is Pending and only Redirect is set.
type Position struct {
	Pending  bool   `json:"pending"`
	Redirect string `json:"redirect,omitempty"`
	Current  *Step  `json:"current,omitempty"`
	Index    int    `json:"index"`
	Previous string `json:"previous,omitempty"`
	Next     string `json:"next,omitempty"`
	Steps    []Step `json:"steps,omitempty"`
}

// Resolve finds the step named key in role's sequence, falling back to the
// first step when key is empty or unknown.
func Resolve(role models.Role, key string) (Position, error) {
	if role == "" {
		return Position{Pending: true, Redirect: RoleSelectionPath}, nil
	}
	steps, err := Sequence(role)
	if err != nil {
		return Position{}, err
	}

	idx := 0
	for i, s := range steps {
		if s.Key == key {
			idx = i
			break
		}
	}

	pos := Position{Current: &steps[idx], Index: idx, Steps: steps}
	if idx > 0 {
		pos.Previous = steps[idx-1].Key
	}
	if idx < len(steps)-1 {
		pos.Next = steps[idx+1].Key
	}
	return pos, nil
}
