// Package chat is direct messaging between matched mentors and mentees,
// over REST and a live websocket stream.
package chat

import (
	"sync"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/realtime"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ChatPlugin struct {
	mod Moderator
	hub *realtime.Hub
	bus realtime.Bus

	once    sync.Once
	service *Service
}

// New wires chat to a moderation service and a hub. bus may be nil, in
// which case messages are delivered through the hub only.
func New(mod Moderator, hub *realtime.Hub, bus realtime.Bus) *ChatPlugin {
	if bus == nil {
		bus = hub
	}
	return &ChatPlugin{mod: mod, hub: hub, bus: bus}
}

func (p *ChatPlugin) ID() string { return "chat" }

func (p *ChatPlugin) Models() []interface{} {
	return []interface{}{&models.ChatMessage{}}
}

func (p *ChatPlugin) serviceFor(db *gorm.DB, cfg *config.Config) *Service {
	p.once.Do(func() {
		p.service = NewService(db, p.mod, p.bus, cfg.AIConcurrency)
	})
	return p.service
}

func (p *ChatPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(p.serviceFor(db, cfg))

	r := router.Group("/chat", middleware.RoleRequired(models.RoleMentor, models.RoleMentee))
	r.Get("/contacts", handler.Contacts)
	r.Get("/messages/:user_id", handler.History)
	r.Post("/messages", handler.Send)
}

// RegisterStream mounts the websocket endpoint. It authenticates with the
// token query parameter since browsers cannot set headers on upgrades.
func (p *ChatPlugin) RegisterStream(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	stream := NewStream(p.hub, p.serviceFor(db, cfg))
	router.Get("/chat", middleware.JWTFromQuery(cfg), stream.Upgrade, stream.Handler())
}
