package onboarding

import "github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"

type AssignRoleRequest struct {
	Role string `json:"role"`
}

type PersonalInformationRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Gender         string `json:"gender"`
	Address        string `json:"address"`
	PWD            bool   `json:"pwd"`
	PWDDescription string `json:"pwd_description"`
	ProfileURL     string `json:"profile"`
}

type AcademicQualificationRequest struct {
	Institution     string   `json:"institution"`
	Course          string   `json:"course"`
	Specializations []string `json:"specializations"`
	AwardID         uint     `json:"award_id"`
	GraduationYear  int      `json:"graduation_year"`
	CertificateURL  string   `json:"certificate"`
}

type EmploymentHistoryRequest struct {
	Designation             string `json:"designation"`
	Duties                  string `json:"duties"`
	RecommendationLetterURL string `json:"recommendation_letter"`
	StartDate               string `json:"start_date"`
	EndDate                 string `json:"end_date"`
}

type SkillsAndInterestsRequest struct {
	Skills    []string `json:"skills"`
	Interests []string `json:"interests"`
}

type BioRequest struct {
	Bio string `json:"bio"`
}

type OrganisationInformationRequest struct {
	Name    string `json:"name"`
	About   string `json:"about"`
	LogoURL string `json:"logo"`
}

// FormResponse is returned by every form GET. Exists is false when the
// user has not saved the form yet and Data holds the empty default.
type FormResponse struct {
	Exists bool        `json:"exists"`
	Data   interface{} `json:"data"`
}

type SkillsAndInterestsView struct {
	Skills    []string `json:"skills"`
	Interests []string `json:"interests"`
}

func skillsView(row *models.SkillsAndInterests) SkillsAndInterestsView {
	return SkillsAndInterestsView{Skills: models.SplitList(row.Skills), Interests: models.SplitList(row.Interests)}
}

type SpecializationsRequest struct {
	Course string `json:"course"`
}

type DutiesRequest struct {
	Designation string `json:"designation"`
}

type DashboardResponse struct {
	Redirect string      `json:"redirect"`
	Role     models.Role `json:"role,omitempty"`
	Sidebar  []NavItem   `json:"sidebar,omitempty"`
}
