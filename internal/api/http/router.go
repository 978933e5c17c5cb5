package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/incident-tracker/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Tickets *handlers.TicketsHandler
	Metrics *handlers.MetricsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "incident tracker API"})
	})

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Snapshot)

	tickets := app.Group("/tickets")
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	// export must register before the :code wildcard
	tickets.Get("/export", cfg.Tickets.ExportTickets)
	tickets.Get("/:code", cfg.Tickets.GetTicket)
	tickets.Put("/:code", cfg.Tickets.UpdateTicket)
	tickets.Get("/:code/logs", cfg.Tickets.ListEventLogs)
}
