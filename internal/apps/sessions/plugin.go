// Package sessions books video meetings between a mentor and approved
// mentees and notifies each mentee by email.
package sessions

import (
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SessionsPlugin struct {
	meetings Scheduler
	mail     Mailer
}

func New(meetings Scheduler, mail Mailer) *SessionsPlugin {
	return &SessionsPlugin{meetings: meetings, mail: mail}
}

func (p *SessionsPlugin) ID() string { return "sessions" }

func (p *SessionsPlugin) Models() []interface{} {
	return []interface{}{&models.MentorSession{}, &models.ScheduleAttempt{}}
}

func (p *SessionsPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(NewService(db, p.meetings, p.mail, cfg.MeetingTimezone))
	mentorOnly := middleware.RoleRequired(models.RoleMentor)

	r := router.Group("/sessions")
	r.Get("/", middleware.RoleRequired(models.RoleMentor, models.RoleMentee), handler.List)
	r.Post("/", mentorOnly, handler.Schedule)
	r.Get("/batches/:batch_id", mentorOnly, handler.Attempts)
}
