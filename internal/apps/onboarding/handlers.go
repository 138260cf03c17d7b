package onboarding

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/completion"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/session"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/validate"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handler struct {
	service   *Service
	gate      *Gate
	suggester *Suggester
	refs      *services.ReferenceService
}

func NewHandler(service *Service, gate *Gate, suggester *Suggester, refs *services.ReferenceService) *Handler {
	return &Handler{service: service, gate: gate, suggester: suggester, refs: refs}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

// fail maps service errors to responses. Unknown errors are logged and
// answered with fallback.
func fail(c *fiber.Ctx, err error, fallback string) error {
	status, message := fiber.StatusInternalServerError, fallback
	switch {
	case validate.Is(err):
		status, message = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, models.ErrUnknownRole):
		status, message = fiber.StatusUnprocessableEntity, "Unknown Role"
	case errors.Is(err, session.ErrNoRole):
		status, message = fiber.StatusForbidden, "Select a role first"
	case errors.Is(err, ErrRoleAlreadySet):
		status, message = fiber.StatusConflict, "Save Error"
	case errors.Is(err, ErrRoleNotSelectable):
		status, message = fiber.StatusBadRequest, "This role cannot be selected"
	case errors.Is(err, ErrEntryNotFound):
		status, message = fiber.StatusNotFound, "Entry not found"
	case errors.Is(err, ErrNothingToSuggestFrom):
		status, message = fiber.StatusBadRequest, "Add academic qualifications or employment history first"
	case errors.Is(err, completion.ErrNotConfigured):
		status, message = fiber.StatusServiceUnavailable, "AI suggestions are not available"
	case errors.Is(err, completion.ErrUnparseable), errors.Is(err, completion.ErrUnavailable):
		status, message = fiber.StatusBadGateway, "Failed to get a suggestion. Please try again."
	}
	if status >= fiber.StatusInternalServerError {
		slog.Error(fallback, "component", "onboarding", "path", c.Path(), "trace_id", c.GetRespHeader(fiber.HeaderXRequestID), "error", err)
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func (h *Handler) Dashboard(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	resp, err := h.service.Dashboard(c.UserContext(), s)
	if err != nil {
		return fail(c, err, "Failed to load dashboard")
	}
	return c.JSON(resp)
}

func (h *Handler) Sidebar(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	if !s.HasRole() {
		return fail(c, session.ErrNoRole, "")
	}
	items, err := Sidebar(s.Role)
	if err != nil {
		return fail(c, err, "Failed to load navigation")
	}
	return c.JSON(items)
}

func (h *Handler) Roles(c *fiber.Ctx) error {
	roles, err := h.refs.SelectableRoles(c.UserContext())
	if err != nil {
		return fail(c, err, "Failed to fetch roles")
	}
	return c.JSON(roles)
}

func (h *Handler) Awards(c *fiber.Ctx) error {
	awards, err := h.refs.Awards(c.UserContext())
	if err != nil {
		return fail(c, err, "Failed to fetch awards")
	}
	return c.JSON(awards)
}

func (h *Handler) AssignRole(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	var req AssignRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	rec, err := h.service.AssignRole(c.UserContext(), s.UserID, req.Role)
	if err != nil {
		return fail(c, err, "Save Error")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"role":     rec.Name,
		"redirect": "/on-boarding/" + StepPersonalInformation,
	})
}

func (h *Handler) Steps(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	pos, err := Resolve(s.Role, c.Query("step"))
	if err != nil {
		return fail(c, err, "Failed to resolve onboarding step")
	}
	return c.JSON(pos)
}

func (h *Handler) Status(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	res, err := h.gate.Check(c.UserContext(), s.UserID)
	if err != nil {
		return fail(c, err, "Failed to check onboarding status")
	}
	return c.JSON(res)
}

func (h *Handler) Complete(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	res, err := h.gate.Finish(c.UserContext(), s.UserID)
	if errors.Is(err, ErrIncomplete) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":    true,
			"message":  "Please complete all onboarding steps first",
			"complete": false,
			"missing":  res.Missing,
		})
	}
	if err != nil {
		return fail(c, err, "Failed to complete onboarding")
	}
	return c.JSON(dto.RedirectResponse{Redirect: "/"})
}

func (h *Handler) GetPersonalInformation(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	resp, err := h.service.GetPersonalInformation(c.UserContext(), s.UserID)
	if err != nil {
		return fail(c, err, "Failed to fetch personal information")
	}
	return c.JSON(resp)
}

func (h *Handler) SavePersonalInformation(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	var req PersonalInformationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	row, err := h.service.SavePersonalInformation(c.UserContext(), s.UserID, req)
	if err != nil {
		return fail(c, err, "Failed to save personal information")
	}
	return c.JSON(row)
}

func (h *Handler) ListAcademicQualifications(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	rows, err := h.service.ListAcademicQualifications(c.UserContext(), s.UserID)
	if err != nil {
		return fail(c, err, "Failed to fetch academic qualifications")
	}
	return c.JSON(rows)
}

func (h *Handler) AddAcademicQualification(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	var req AcademicQualificationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	row, err := h.service.AddAcademicQualification(c.UserContext(), s.UserID, req)
	if err != nil {
		return fail(c, err, "Failed to save academic qualification")
	}
	return c.Status(fiber.StatusCreated).JSON(row)
}

func (h *Handler) DeleteAcademicQualification(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid ID",
		})
	}
	if err := h.service.DeleteAcademicQualification(c.UserContext(), s.UserID, id); err != nil {
		return fail(c, err, "Failed to delete academic qualification")
	}
	return c.JSON(dto.MessageResponse{Message: "Deleted"})
}

func (h *Handler) ListEmploymentHistory(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	rows, err := h.service.ListEmploymentHistory(c.UserContext(), s.UserID)
	if err != nil {
		return fail(c, err, "Failed to fetch employment history")
	}
	return c.JSON(rows)
}

func (h *Handler) AddEmploymentHistory(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	var req EmploymentHistoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	row, err := h.service.AddEmploymentHistory(c.UserContext(), s.UserID, req)
	if err != nil {
		return fail(c, err, "Failed to save employment history")
	}
	return c.Status(fiber.StatusCreated).JSON(row)
}

func (h *Handler) DeleteEmploymentHistory(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid ID",
		})
	}
	if err := h.service.DeleteEmploymentHistory(c.UserContext(), s.UserID, id); err != nil {
		return fail(c, err, "Failed to delete employment history")
	}
	return c.JSON(dto.MessageResponse{Message: "Deleted"})
}

func (h *Handler) GetSkillsAndInterests(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	resp, err := h.service.GetSkillsAndInterests(c.UserContext(), s.UserID)
	if err != nil {
		return fail(c, err, "Failed to fetch skills and interests")
	}
	return c.JSON(resp)
}

func (h *Handler) SaveSkillsAndInterests(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	var req SkillsAndInterestsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	view, err := h.service.SaveSkillsAndInterests(c.UserContext(), s.UserID, req)
	if err != nil {
		return fail(c, err, "Failed to save skills and interests")
	}
	return c.JSON(view)
}

func (h *Handler) GetBio(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	resp, err := h.service.GetBio(c.UserContext(), s.UserID)
	if err != nil {
		return fail(c, err, "Failed to fetch bio")
	}
	return c.JSON(resp)
}

func (h *Handler) SaveBio(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	var req BioRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	row, err := h.service.SaveBio(c.UserContext(), s.UserID, req)
	if err != nil {
		return fail(c, err, "Failed to save bio")
	}
	return c.JSON(row)
}

func (h *Handler) GetOrganisationInformation(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	resp, err := h.service.GetOrganisationInformation(c.UserContext(), s.UserID)
	if err != nil {
		return fail(c, err, "Failed to fetch organisation information")
	}
	return c.JSON(resp)
}

func (h *Handler) SaveOrganisationInformation(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	var req OrganisationInformationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	row, err := h.service.SaveOrganisationInformation(c.UserContext(), s.UserID, req)
	if err != nil {
		return fail(c, err, "Failed to save organisation information")
	}
	return c.JSON(row)
}

func (h *Handler) SuggestSpecializations(c *fiber.Ctx) error {
	var req SpecializationsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	out, err := h.suggester.Specializations(c.UserContext(), req.Course)
	if err != nil {
		return fail(c, err, "Failed to fetch specializations")
	}
	return c.JSON(fiber.Map{"specializations": out})
}

func (h *Handler) SuggestDuties(c *fiber.Ctx) error {
	var req DutiesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	out, err := h.suggester.Duties(c.UserContext(), req.Designation)
	if err != nil {
		return fail(c, err, "Failed to fetch duties")
	}
	return c.JSON(fiber.Map{"duties": out})
}

func (h *Handler) SuggestSkillsAndInterests(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	out, err := h.suggester.SkillsAndInterests(c.UserContext(), s.UserID)
	if err != nil {
		return fail(c, err, "Failed to fetch skills and interests")
	}
	return c.JSON(out)
}

func (h *Handler) SuggestBiography(c *fiber.Ctx) error {
	s, err := session.From(c)
	if err != nil {
		return unauthorized(c)
	}
	out, err := h.suggester.Biography(c.UserContext(), s.UserID)
	if err != nil {
		return fail(c, err, "Failed to generate biography")
	}
	return c.JSON(fiber.Map{"biography": out})
}
