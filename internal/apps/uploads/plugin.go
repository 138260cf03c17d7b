// Package uploads stores user files (profile pictures, certificates, letters,
// logos, resources and application documents) in object storage.
package uploads

import (
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UploadsPlugin struct {
	store storage.Store
}

// New returns the plugin. A nil store keeps the route mounted but every
// upload answers 503.
func New(store storage.Store) *UploadsPlugin {
	return &UploadsPlugin{store: store}
}

func (p *UploadsPlugin) ID() string { return "uploads" }

func (p *UploadsPlugin) Models() []interface{} { return nil }

func (p *UploadsPlugin) RegisterRoutes(router fiber.Router, _ *gorm.DB, _ *config.Config) {
	handler := NewHandler(p.store)
	router.Post("/uploads/:bucket", handler.Upload)
}
