// Package resources stores the learning material mentors share and proxies
// chat-with-resources to the retrieval service.
package resources

import (
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ResourcesPlugin struct {
	rag Retriever
}

func New(rag Retriever) *ResourcesPlugin {
	return &ResourcesPlugin{rag: rag}
}

func (p *ResourcesPlugin) ID() string { return "resources" }

func (p *ResourcesPlugin) Models() []interface{} {
	return []interface{}{&models.Resource{}}
}

func (p *ResourcesPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, _ *config.Config) {
	handler := NewHandler(NewService(db, p.rag))
	mentorOnly := middleware.RoleRequired(models.RoleMentor)
	participants := middleware.RoleRequired(models.RoleMentor, models.RoleMentee)

	r := router.Group("/resources")
	r.Get("/", participants, handler.List)
	r.Post("/", mentorOnly, handler.Create)
	r.Delete("/:id", mentorOnly, handler.Delete)
	r.Post("/train", participants, handler.Train)
	r.Post("/query", participants, handler.Query)
}
