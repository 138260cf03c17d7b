package chat

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/dto"
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
	var rejected *RejectedError
	switch {
	case validate.Is(err):
		status, message = fiber.StatusBadRequest, err.Error()
	case errors.As(err, &rejected):
		status, message = fiber.StatusBadRequest, rejected.Message
	case errors.Is(err, ErrNotContact):
		status, message = fiber.StatusForbidden, "You can only message your matches."
	case errors.Is(err, ErrBlocked):
		status, message = fiber.StatusForbidden, "You cannot message this user."
	}
	if status >= fiber.StatusInternalServerError {
		slog.Error(fallback, "component", "chat", "path", c.Path(), "trace_id", c.GetRespHeader(fiber.HeaderXRequestID), "error", err)
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func (h *Handler) Send(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	var req SendRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid request body"})
	}
	msg, err := h.service.Send(c.UserContext(), s.UserID, req)
	if err != nil {
		return fail(c, err, "Failed to send message")
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// History serves GET /chat/messages/:user_id?limit=100.
func (h *Handler) History(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	other, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid user id"})
	}
	msgs, err := h.service.History(c.UserContext(), s.UserID, other, c.QueryInt("limit", defaultPageSize))
	if err != nil {
		return fail(c, err, "Failed to load messages")
	}
	return c.JSON(msgs)
}

func (h *Handler) Contacts(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	out, err := h.service.Contacts(c.UserContext(), s.UserID)
	if err != nil {
		return fail(c, err, "Failed to load contacts")
	}
	return c.JSON(out)
}
