package matching

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/completion"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/session"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/validate"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handler struct {
	service *Service
	ranker  *Ranker
}

func NewHandler(service *Service, ranker *Ranker) *Handler {
	return &Handler{service: service, ranker: ranker}
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
	case errors.Is(err, ErrDuplicateMatch):
		status, message = fiber.StatusConflict, "A match with this mentor already exists."
	case errors.Is(err, ErrMatchNotFound):
		status, message = fiber.StatusNotFound, "Match not found"
	case errors.Is(err, ErrMentorNotFound):
		status, message = fiber.StatusNotFound, "Mentor not found"
	case errors.Is(err, completion.ErrNotConfigured):
		status, message = fiber.StatusServiceUnavailable, "AI matching is not available"
	}
	if status >= fiber.StatusInternalServerError {
		slog.Error(fallback, "component", "matching", "path", c.Path(), "trace_id", c.GetRespHeader(fiber.HeaderXRequestID), "error", err)
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func (h *Handler) RankMentors(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	res, err := h.ranker.RankMentors(c.UserContext(), s.UserID)
	if err != nil {
		return fail(c, err, "Failed to match mentors")
	}
	return c.JSON(res)
}

func (h *Handler) Commit(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	var req CommitRequest
	if err := c.BodyParser(&req); err != nil || req.MentorID == uuid.Nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid request body"})
	}
	m, err := h.service.Commit(c.UserContext(), s.UserID, req)
	if err != nil {
		return fail(c, err, "Failed to save match")
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

func (h *Handler) Approve(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	menteeID, err := uuid.Parse(c.Params("mentee_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid mentee id"})
	}
	if err := h.service.Approve(c.UserContext(), s.UserID, menteeID); err != nil {
		return fail(c, err, "Failed to approve match")
	}
	return c.JSON(fiber.Map{"approved": true})
}

func (h *Handler) Decline(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	menteeID, err := uuid.Parse(c.Params("mentee_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid mentee id"})
	}
	if err := h.service.Decline(c.UserContext(), s.UserID, menteeID); err != nil {
		return fail(c, err, "Failed to decline match")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListMatches serves GET /matching/matches?status=pending|approved.
func (h *Handler) ListMatches(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	approved, err := statusFilter(c.Query("status"))
	if err != nil {
		return fail(c, err, "")
	}
	out, err := h.service.ListMatches(c.UserContext(), s, approved)
	if err != nil {
		return fail(c, err, "Failed to load matches")
	}
	return c.JSON(out)
}

// MyMentors lists the mentors that approved the calling mentee.
func (h *Handler) MyMentors(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	approved := true
	out, err := h.service.ListMatches(c.UserContext(), s, &approved)
	if err != nil {
		return fail(c, err, "Failed to load mentors")
	}
	return c.JSON(out)
}

func (h *Handler) MyMentees(c *fiber.Ctx) error {
	return h.ListMatches(c)
}

func (h *Handler) Mentors(c *fiber.Ctx) error {
	cards, err := h.service.Mentors(c.UserContext())
	if err != nil {
		return fail(c, err, "Failed to load mentors")
	}
	return c.JSON(cards)
}

func (h *Handler) Mentor(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid mentor id"})
	}
	detail, err := h.service.Mentor(c.UserContext(), s.UserID, id)
	if err != nil {
		return fail(c, err, "Failed to load mentor")
	}
	return c.JSON(detail)
}

func statusFilter(status string) (*bool, error) {
	var approved bool
	switch status {
	case "":
		return nil, nil
	case "pending":
		approved = false
	case "approved":
		approved = true
	default:
		return nil, validate.Errorf("status must be pending or approved.")
	}
	return &approved, nil
}
