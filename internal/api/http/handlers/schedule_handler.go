package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/break-planner/internal/api/dto"
	"github.com/spec-kit/break-planner/internal/auth"
	"github.com/spec-kit/break-planner/internal/events"
	"github.com/spec-kit/break-planner/internal/service"
	apperrors "github.com/spec-kit/break-planner/pkg/util/errorutil"
)

// ScheduleHandler exposes schedule generation, checks and storage.
type ScheduleHandler struct {
	service *service.PlannerService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(plannerService *service.PlannerService) *ScheduleHandler {
	return &ScheduleHandler{service: plannerService}
}

// Generate POST /api/v1/schedules/generate.
func (h *ScheduleHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerateScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.service.Generate(c.UserContext(), service.GenerateInput{
		Date:      req.Date,
		Employees: dto.ToEmployees(req.Employees),
		Rules:     req.Overrides(),
		Persist:   req.Persist,
		Actor:     actorFrom(c),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromResult(result)})
}

// Validate POST /api/v1/schedules/validate.
func (h *ScheduleHandler) Validate(c *fiber.Ctx) error {
	var req dto.ValidateScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	violations, err := h.service.Validate(c.UserContext(), service.ValidateInput{
		Date:      req.Date,
		Employees: dto.ToEmployees(req.Employees),
		Schedule:  dto.ToSchedule(req.Schedule),
		Rules:     req.Overrides(),
		Actor:     actorFrom(c),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ViolationsResponse{Valid: len(violations) == 0, Violations: violations}})
}

// Headcount POST /api/v1/schedules/headcount.
func (h *ScheduleHandler) Headcount(c *fiber.Ctx) error {
	var req dto.HeadcountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	curve, err := h.service.Headcount(c.UserContext(), service.HeadcountInput{
		Date:      req.Date,
		Employees: dto.ToEmployees(req.Employees),
		Schedule:  dto.ToSchedule(req.Schedule),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": curve})
}

// Save POST /api/v1/schedules.
func (h *ScheduleHandler) Save(c *fiber.Ctx) error {
	var req dto.SaveScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Date == "" {
		return apperrors.NewValidationError("date required", nil)
	}

	snapshot, err := h.service.SaveSchedule(c.UserContext(), service.SaveInput{
		Date:      req.Date,
		Employees: dto.ToEmployees(req.Employees),
		Schedule:  dto.ToSchedule(req.Schedule),
		Source:    req.Source,
		Rules:     req.Overrides(),
		Actor:     actorFrom(c),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromSnapshot(snapshot)})
}

// Latest GET /api/v1/schedules/latest?date=YYYY-MM-DD.
func (h *ScheduleHandler) Latest(c *fiber.Ctx) error {
	snapshot, err := h.service.LatestSchedule(c.UserContext(), c.Query("date"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromSnapshot(snapshot)})
}

// Dates GET /api/v1/schedules/dates?limit=N.
func (h *ScheduleHandler) Dates(c *fiber.Ctx) error {
	dates, err := h.service.ScheduleDates(c.UserContext(), parseIntQuery(c, "limit", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dates})
}

func actorFrom(c *fiber.Ctx) events.Actor {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return events.Actor{}
	}
	return events.Actor{Subject: principal.Subject, Role: principal.Role}
}
