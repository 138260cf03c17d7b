package resources

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/rag"
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
	case errors.Is(err, ErrResourceNotFound):
		status, message = fiber.StatusNotFound, "Resource not found"
	case errors.Is(err, rag.ErrNotConfigured):
		status, message = fiber.StatusServiceUnavailable, "Chat with resources is not available"
	}
	if status >= fiber.StatusInternalServerError {
		slog.Error(fallback, "component", "resources", "path", c.Path(), "trace_id", c.GetRespHeader(fiber.HeaderXRequestID), "error", err)
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

// upstream answers a retrieval service failure with 502.
func upstream(c *fiber.Ctx, err error, message string) error {
	if validate.Is(err) || errors.Is(err, rag.ErrNotConfigured) {
		return fail(c, err, message)
	}
	slog.Error(message, "component", "resources", "path", c.Path(), "trace_id", c.GetRespHeader(fiber.HeaderXRequestID), "error", err)
	return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func (h *Handler) Create(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid request body"})
	}
	r, err := h.service.Create(c.UserContext(), s.UserID, req)
	if err != nil {
		return fail(c, err, "Failed to save resource. Try again.")
	}
	return c.Status(fiber.StatusCreated).JSON(r)
}

func (h *Handler) List(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	out, err := h.service.List(c.UserContext(), s)
	if err != nil {
		return fail(c, err, "Failed to fetch resources.")
	}
	return c.JSON(out)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid resource id"})
	}
	if err := h.service.Delete(c.UserContext(), s.UserID, id); err != nil {
		return fail(c, err, "Failed to delete resource.")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) Train(c *fiber.Ctx) error {
	var req TrainRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid request body"})
	}
	answer, err := h.service.Train(c.UserContext(), req)
	if err != nil {
		return upstream(c, err, "Failed to start training.")
	}
	return c.JSON(fiber.Map{"test_response": answer})
}

func (h *Handler) Query(c *fiber.Ctx) error {
	var req QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid request body"})
	}
	answer, err := h.service.Query(c.UserContext(), req.Query)
	if err != nil {
		return upstream(c, err, "Failed to get a response.")
	}
	return c.JSON(fiber.Map{"query": req.Query, "response": answer})
}
