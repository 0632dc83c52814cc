package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/break-planner/internal/api/http/handlers"
	"github.com/spec-kit/break-planner/internal/auth"
	"github.com/spec-kit/break-planner/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Metrics        *handlers.MetricsHandler
	Schedules      *handlers.ScheduleHandler
	Breaks         *handlers.BreaksHandler
	Settings       *handlers.SettingsHandler
	Employees      *handlers.EmployeesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Get)

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	manager := auth.RequireRole(domain.OperatorRoleManager)

	schedules := api.Group("/schedules")
	schedules.Post("/generate", manager, cfg.Schedules.Generate)
	schedules.Post("/validate", cfg.Schedules.Validate)
	schedules.Post("/headcount", cfg.Schedules.Headcount)
	schedules.Get("/latest", cfg.Schedules.Latest)
	schedules.Get("/dates", cfg.Schedules.Dates)
	schedules.Post("", manager, cfg.Schedules.Save)

	api.Post("/breaks/calculate", cfg.Breaks.Calculate)

	employees := api.Group("/employees")
	employees.Get("", cfg.Employees.List)
	employees.Get("/:id", cfg.Employees.Get)
	employees.Post("", manager, cfg.Employees.Create)
	employees.Put("/:id", manager, cfg.Employees.Update)
	employees.Delete("/:id", manager, cfg.Employees.Delete)

	api.Get("/settings", cfg.Settings.Get)
	api.Put("/settings", manager, cfg.Settings.Update)
}
