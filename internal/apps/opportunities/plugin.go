// Package opportunities lets organisations post jobs, internships and
// attachments and lets mentees browse, match and apply to them.
package opportunities

import (
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/completion"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type OpportunitiesPlugin struct {
	ai completion.Completer
}

func New(ai completion.Completer) *OpportunitiesPlugin {
	return &OpportunitiesPlugin{ai: ai}
}

func (p *OpportunitiesPlugin) ID() string { return "opportunities" }

func (p *OpportunitiesPlugin) Models() []interface{} {
	return []interface{}{&models.Opportunity{}, &models.Application{}}
}

func (p *OpportunitiesPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(NewService(db), NewMatcher(db, p.ai, cfg.AIConcurrency))

	org := router.Group("/org", middleware.RoleRequired(models.RoleOrg))
	org.Get("/opportunities", handler.ListOwn)
	org.Post("/opportunities", handler.Create)
	org.Get("/opportunities/stats", handler.Stats)
	org.Put("/opportunities/:id/status", handler.UpdateStatus)
	org.Delete("/opportunities/:id", handler.Delete)
	org.Get("/opportunities/:id/applications", handler.Applications)
	org.Put("/applications/:id/status", handler.SetApplicationStatus)

	mentee := router.Group("/opportunities", middleware.RoleRequired(models.RoleMentee))
	mentee.Get("/", handler.ListOpen)
	mentee.Get("/ai-matches", handler.MatchJobs)
	mentee.Get("/applications", handler.MyApplications)
	mentee.Get("/:id", handler.Get)
	mentee.Post("/:id/applications", handler.Apply)
}
