package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	services map[string]string
}

// NewHealthHandler takes the startup state of each optional collaborator,
// e.g. {"completion": "ok", "meeting": "disabled"}.
func NewHealthHandler(services map[string]string) *HealthHandler {
	return &HealthHandler{services: services}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Services:  h.services,
	})
}
