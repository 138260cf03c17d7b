package apps

import (
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/config"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Plugin is one feature area of the service.
type Plugin interface {
	// ID names the feature in logs.
	ID() string

	// Models returns the list of GORM model pointers for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts feature routes on the given Fiber group.
	// The group is prefixed with /api/p and already carries the JWT and
	// session middleware.
	RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}

// AdminPlugin extends Plugin with admin-specific route registration.
type AdminPlugin interface {
	Plugin

	// RegisterAdminRoutes mounts admin-only routes on the given Fiber group.
	RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}

// StreamPlugin mounts long-lived connections (websockets). The group is
// prefixed with /api/ws and carries no auth middleware; the plugin
// authenticates the upgrade itself.
type StreamPlugin interface {
	Plugin

	RegisterStream(router fiber.Router, db *gorm.DB, cfg *config.Config)
}
