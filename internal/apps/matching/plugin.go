// Package matching pairs mentees with mentors, either by AI ranking or by
// browsing the mentor directory, and tracks mentor approval.
package matching

import (
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/completion"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MatchingPlugin struct {
	ai completion.Completer
}

func New(ai completion.Completer) *MatchingPlugin {
	return &MatchingPlugin{ai: ai}
}

func (p *MatchingPlugin) ID() string { return "matching" }

func (p *MatchingPlugin) Models() []interface{} {
	return []interface{}{&models.Match{}}
}

func (p *MatchingPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(NewService(db, cfg.AIConcurrency), NewRanker(db, p.ai, cfg.AIConcurrency))

	menteeOnly := middleware.RoleRequired(models.RoleMentee)
	mentorOnly := middleware.RoleRequired(models.RoleMentor)

	router.Get("/mentors", handler.Mentors)
	router.Get("/mentors/mine", menteeOnly, handler.MyMentors)
	router.Get("/mentors/:id", handler.Mentor)
	router.Get("/mentees/mine", mentorOnly, handler.MyMentees)

	m := router.Group("/matching")
	m.Get("/mentors/ai", menteeOnly, handler.RankMentors)
	m.Get("/matches", handler.ListMatches)
	m.Post("/matches", menteeOnly, handler.Commit)
	m.Put("/matches/:mentee_id/approve", mentorOnly, handler.Approve)
	m.Delete("/matches/:mentee_id", mentorOnly, handler.Decline)
}
