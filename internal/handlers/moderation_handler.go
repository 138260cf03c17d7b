package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ModerationHandler struct {
	moderationService *services.ModerationService
}

func NewModerationHandler(moderationService *services.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

// moderationFail maps service sentinels to statuses. Unknown errors are
// logged and answered with fallback.
func moderationFail(c *fiber.Ctx, err error, fallback string) error {
	status := fiber.StatusInternalServerError
	msg := fallback
	switch {
	case errors.Is(err, services.ErrInvalidContentType), errors.Is(err, services.ErrReasonRequired),
		errors.Is(err, services.ErrInvalidReportState):
		status, msg = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrSelfBlock), errors.Is(err, services.ErrAlreadyBlocked):
		status, msg = fiber.StatusConflict, err.Error()
	case errors.Is(err, services.ErrReportNotFound):
		status, msg = fiber.StatusNotFound, err.Error()
	default:
		slog.Error(fallback, "component", "moderation", "path", c.Path(),
			"trace_id", c.GetRespHeader(fiber.HeaderXRequestID), "error", err)
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func (h *ModerationHandler) CreateReport(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	report, err := h.moderationService.CreateReport(c.UserContext(), s.UserID, &req)
	if err != nil {
		return moderationFail(c, err, "Failed to create report")
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

func (h *ModerationHandler) ListBlocks(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	blocks, err := h.moderationService.ListBlocks(c.UserContext(), s.UserID)
	if err != nil {
		return moderationFail(c, err, "Failed to fetch blocks")
	}
	return c.JSON(fiber.Map{"blocks": blocks})
}

func (h *ModerationHandler) BlockUser(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.BlockUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.BlockedID == uuid.Nil {
		return badRequest(c, "blocked_id is required")
	}

	if err := h.moderationService.BlockUser(c.UserContext(), s.UserID, req.BlockedID); err != nil {
		return moderationFail(c, err, "Failed to block user")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"blocked_id": req.BlockedID})
}

func (h *ModerationHandler) UnblockUser(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	blockedID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	if err := h.moderationService.UnblockUser(c.UserContext(), s.UserID, blockedID); err != nil {
		return moderationFail(c, err, "Failed to unblock user")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ModerationHandler) ListReports(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := max(c.QueryInt("offset", 0), 0)
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	reports, total, err := h.moderationService.ListReports(c.UserContext(), c.Query("status"), limit, offset)
	if err != nil {
		return moderationFail(c, err, "Failed to fetch reports")
	}
	return c.JSON(fiber.Map{"reports": reports, "total": total, "limit": limit, "offset": offset})
}

func (h *ModerationHandler) ActionReport(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}
	var req dto.ActionReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.moderationService.ActionReport(c.UserContext(), reportID, &req); err != nil {
		return moderationFail(c, err, "Failed to update report")
	}
	return c.JSON(fiber.Map{"id": reportID, "status": req.Status})
}
