package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/break-planner/internal/api/dto"
	"github.com/spec-kit/break-planner/internal/service"
	apperrors "github.com/spec-kit/break-planner/pkg/util/errorutil"
)

// SettingsHandler reads and replaces planner settings.
type SettingsHandler struct {
	service *service.PlannerService
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(plannerService *service.PlannerService) *SettingsHandler {
	return &SettingsHandler{service: plannerService}
}

// Get GET /api/v1/settings.
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	settings, err := h.service.Settings(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": settings})
}

// Update PUT /api/v1/settings.
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	settings, err := h.service.UpdateSettings(c.UserContext(), req.ToSettings(), actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": settings})
}
