package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/break-planner/internal/api/dto"
	"github.com/spec-kit/break-planner/internal/service"
	apperrors "github.com/spec-kit/break-planner/pkg/util/errorutil"
)

// EmployeesHandler exposes the stored roster.
type EmployeesHandler struct {
	service *service.PlannerService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(plannerService *service.PlannerService) *EmployeesHandler {
	return &EmployeesHandler{service: plannerService}
}

// List handles GET /api/v1/employees.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "page_size", 50)
	members, err := h.service.ListEmployees(c.UserContext(), service.RosterListFilters{
		Role:   c.Query("role"),
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return err
	}
	resp := make([]dto.EmployeeResponse, 0, len(members))
	for i := range members {
		resp = append(resp, dto.FromRosterMember(&members[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Get handles GET /api/v1/employees/:id.
func (h *EmployeesHandler) Get(c *fiber.Ctx) error {
	member, err := h.service.GetEmployee(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromRosterMember(member)})
}

// Create handles POST /api/v1/employees.
func (h *EmployeesHandler) Create(c *fiber.Ctx) error {
	var req dto.EmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	member, err := h.service.CreateEmployee(c.UserContext(), req.ToEmployee(), actorFrom(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromRosterMember(member)})
}

// Update handles PUT /api/v1/employees/:id.
func (h *EmployeesHandler) Update(c *fiber.Ctx) error {
	var req dto.EmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	member, err := h.service.UpdateEmployee(c.UserContext(), c.Params("id"), req.ToEmployee(), actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromRosterMember(member)})
}

// Delete handles DELETE /api/v1/employees/:id.
func (h *EmployeesHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteEmployee(c.UserContext(), c.Params("id"), actorFrom(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseIntQuery(c *fiber.Ctx, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultVal
}
