package sessions

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/session"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/validate"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func fail(c *fiber.Ctx, err error, fallback string) error {
	status, message := fiber.StatusInternalServerError, fallback
	switch {
	case validate.Is(err):
		status, message = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, models.ErrUnknownRole):
		status, message = fiber.StatusUnprocessableEntity, "Unknown Role"
	}
	if status >= fiber.StatusInternalServerError {
		slog.Error(fallback, "component", "sessions", "path", c.Path(), "trace_id", c.GetRespHeader(fiber.HeaderXRequestID), "error", err)
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

// Schedule answers 201 when every mentee was booked, 207 when the batch
// stopped part way and 502 when the first mentee already failed.
func (h *Handler) Schedule(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	var req ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid request body"})
	}
	res, err := h.service.Schedule(c.UserContext(), s.UserID, req)
	if err != nil {
		return fail(c, err, "Error creating meeting. Please try again.")
	}

	status := fiber.StatusCreated
	switch {
	case res.Failed && res.Scheduled > 0:
		status = fiber.StatusMultiStatus
	case res.Failed:
		status = fiber.StatusBadGateway
	}
	return c.Status(status).JSON(res)
}

func (h *Handler) List(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	out, err := h.service.List(c.UserContext(), s)
	if err != nil {
		return fail(c, err, "Failed to fetch sessions.")
	}
	return c.JSON(out)
}

func (h *Handler) Attempts(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	batchID, err := uuid.Parse(c.Params("batch_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid batch id"})
	}
	out, err := h.service.Attempts(c.UserContext(), s.UserID, batchID)
	if err != nil {
		return fail(c, err, "Failed to fetch scheduling log.")
	}
	return c.JSON(out)
}
