package opportunities

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
	matcher *Matcher
}

func NewHandler(service *Service, matcher *Matcher) *Handler {
	return &Handler{service: service, matcher: matcher}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func fail(c *fiber.Ctx, err error, fallback string) error {
	status, message := fiber.StatusInternalServerError, fallback
	switch {
	case validate.Is(err):
		status, message = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, ErrOrgNotFound):
		status, message = fiber.StatusNotFound, "Your organization was not found. Please complete your organisation profile."
	case errors.Is(err, ErrOpportunityNotFound):
		status, message = fiber.StatusNotFound, "Opportunity not found"
	case errors.Is(err, ErrApplicationNotFound):
		status, message = fiber.StatusNotFound, "Application not found"
	case errors.Is(err, ErrOpportunityClosed):
		status, message = fiber.StatusConflict, "This opportunity is no longer accepting applications."
	case errors.Is(err, ErrDuplicateApplication):
		status, message = fiber.StatusConflict, "You already have a pending application for this opportunity."
	case errors.Is(err, ErrBioMissing):
		status, message = fiber.StatusBadRequest, "Add your bio before matching jobs"
	case errors.Is(err, completion.ErrNotConfigured):
		status, message = fiber.StatusServiceUnavailable, "AI matching is not available"
	}
	if status >= fiber.StatusInternalServerError {
		slog.Error(fallback, "component", "opportunities", "path", c.Path(), "trace_id", c.GetRespHeader(fiber.HeaderXRequestID), "error", err)
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func (h *Handler) Create(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	opp, err := h.service.Create(c.UserContext(), s.UserID, req)
	if err != nil {
		return fail(c, err, "Failed to create opportunity.")
	}
	return c.Status(fiber.StatusCreated).JSON(opp)
}

// ListOwn serves GET /org/opportunities?type=jobs.
func (h *Handler) ListOwn(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	out, err := h.service.ListOwn(c.UserContext(), s.UserID, models.OpportunityType(c.Query("type")))
	if err != nil {
		return fail(c, err, "Failed to fetch opportunities.")
	}
	return c.JSON(out)
}

func (h *Handler) UpdateStatus(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid opportunity id")
	}
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.service.UpdateStatus(c.UserContext(), s.UserID, id, req.Status); err != nil {
		return fail(c, err, "Failed to update opportunity.")
	}
	return c.JSON(fiber.Map{"status": req.Status})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid opportunity id")
	}
	if err := h.service.Delete(c.UserContext(), s.UserID, id); err != nil {
		return fail(c, err, "Failed to delete opportunity.")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) Stats(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	st, err := h.service.Stats(c.UserContext(), s.UserID)
	if err != nil {
		return fail(c, err, "Failed to load statistics.")
	}
	return c.JSON(st)
}

func (h *Handler) Applications(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid opportunity id")
	}
	out, err := h.service.Applications(c.UserContext(), s.UserID, id)
	if err != nil {
		return fail(c, err, "Failed to fetch applications.")
	}
	return c.JSON(out)
}

func (h *Handler) SetApplicationStatus(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid application id")
	}
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.service.SetApplicationStatus(c.UserContext(), s.UserID, id, req.Status); err != nil {
		return fail(c, err, "Failed to update application.")
	}
	return c.JSON(fiber.Map{"status": req.Status})
}

func (h *Handler) ListOpen(c *fiber.Ctx) error {
	out, err := h.service.ListOpen(c.UserContext(), models.OpportunityType(c.Query("type")))
	if err != nil {
		return fail(c, err, "Failed to fetch opportunities.")
	}
	return c.JSON(out)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid opportunity id")
	}
	opp, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err, "Failed to fetch opportunity.")
	}
	return c.JSON(opp)
}

func (h *Handler) Apply(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid opportunity id")
	}
	var req ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	app, err := h.service.Apply(c.UserContext(), s.UserID, id, req)
	if err != nil {
		return fail(c, err, "Failed to submit application.")
	}
	return c.Status(fiber.StatusCreated).JSON(app)
}

func (h *Handler) MyApplications(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	out, err := h.service.MyApplications(c.UserContext(), s.UserID)
	if err != nil {
		return fail(c, err, "Failed to fetch applied jobs.")
	}
	return c.JSON(out)
}

func (h *Handler) MatchJobs(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	res, err := h.matcher.MatchJobs(c.UserContext(), s.UserID)
	if err != nil {
		return fail(c, err, "Error connecting to AI service.")
	}
	return c.JSON(res)
}
