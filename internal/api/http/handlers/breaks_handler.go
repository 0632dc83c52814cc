package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/break-planner/internal/api/dto"
	"github.com/spec-kit/break-planner/internal/service"
	apperrors "github.com/spec-kit/break-planner/pkg/util/errorutil"
)

// BreaksHandler computes breaks for a single shift.
type BreaksHandler struct {
	service *service.PlannerService
}

// NewBreaksHandler constructs handler.
func NewBreaksHandler(plannerService *service.PlannerService) *BreaksHandler {
	return &BreaksHandler{service: plannerService}
}

// Calculate POST /api/v1/breaks/calculate.
func (h *BreaksHandler) Calculate(c *fiber.Ctx) error {
	var req dto.CalculateBreaksRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.StartTime == "" || req.EndTime == "" {
		return apperrors.NewValidationError("start_time and end_time required", nil)
	}

	breaks, err := h.service.CalculateBreaks(c.UserContext(), service.CalculateInput{
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		BreakRules: req.BreakRules,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromBreaks(breaks)})
}
