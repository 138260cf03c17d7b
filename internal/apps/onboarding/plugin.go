// Package onboarding walks new users through role selection and the
// profile forms their role requires.
package onboarding

import (
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/completion"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type OnboardingPlugin struct {
	refs *services.ReferenceService
	ai   completion.Completer
}

func New(refs *services.ReferenceService, ai completion.Completer) *OnboardingPlugin {
	return &OnboardingPlugin{refs: refs, ai: ai}
}

func (p *OnboardingPlugin) ID() string { return "onboarding" }

func (p *OnboardingPlugin) Models() []interface{} {
	return []interface{}{
		&models.PersonalInformation{},
		&models.Award{},
		&models.AcademicQualification{},
		&models.EmploymentHistory{},
		&models.SkillsAndInterests{},
		&models.Bio{},
		&models.OrganisationInformation{},
		&models.OnboardingStatus{},
	}
}

func (p *OnboardingPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewService(db, p.refs)
	gate := NewGate(db)
	handler := NewHandler(svc, gate, NewSuggester(db, p.ai), p.refs)

	router.Get("/dashboard", handler.Dashboard)
	router.Get("/sidebar", handler.Sidebar)
	router.Get("/roles", handler.Roles)
	router.Get("/awards", handler.Awards)
	router.Post("/user-role", handler.AssignRole)

	router.Get("/onboarding/steps", handler.Steps)
	router.Get("/onboarding/status", handler.Status)
	router.Post("/onboarding/complete", handler.Complete)

	profile := router.Group("/profile")
	profile.Get("/personal-information", handler.GetPersonalInformation)
	profile.Put("/personal-information", handler.SavePersonalInformation)
	profile.Get("/academic-qualifications", handler.ListAcademicQualifications)
	profile.Post("/academic-qualifications", handler.AddAcademicQualification)
	profile.Delete("/academic-qualifications/:id", handler.DeleteAcademicQualification)
	profile.Get("/employment-history", handler.ListEmploymentHistory)
	profile.Post("/employment-history", handler.AddEmploymentHistory)
	profile.Delete("/employment-history/:id", handler.DeleteEmploymentHistory)
	profile.Get("/skills-and-interests", handler.GetSkillsAndInterests)
	profile.Put("/skills-and-interests", handler.SaveSkillsAndInterests)
	profile.Get("/bio", handler.GetBio)
	profile.Put("/bio", handler.SaveBio)

	org := profile.Group("/organisation-information", middleware.RoleRequired(models.RoleOrg))
	org.Get("/", handler.GetOrganisationInformation)
	org.Put("/", handler.SaveOrganisationInformation)

	suggest := router.Group("/suggestions")
	suggest.Post("/specializations", handler.SuggestSpecializations)
	suggest.Post("/duties", handler.SuggestDuties)
	suggest.Post("/skills-and-interests", handler.SuggestSkillsAndInterests)
	suggest.Post("/biography", handler.SuggestBiography)
}
