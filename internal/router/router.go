package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/capstone-go-api/internal/config"
	"github.com/noah-isme/capstone-go-api/internal/handler"
	"github.com/noah-isme/capstone-go-api/internal/middleware"
	"github.com/noah-isme/capstone-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	TaskHandler       *handler.TaskHandler
	SubmissionHandler *handler.SubmissionHandler
	TeamStatsHandler  *handler.TeamStatsHandler
	ReportHandler     *handler.ReportHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.TaskHandler != nil {
		tasks := api.Group("/tasks", jwtMiddleware)
		deps.TaskHandler.Register(tasks)
	}

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions", jwtMiddleware)
		deps.SubmissionHandler.Register(submissions, middleware.RequireRole("admin", "teacher"))
	}

	if deps.TeamStatsHandler != nil {
		stats := api.Group("", jwtMiddleware)
		deps.TeamStatsHandler.Register(stats)
	}

	if deps.ReportHandler != nil {
		reports := api.Group("/reports", jwtMiddleware, middleware.RequireRole("admin", "teacher"))
		deps.ReportHandler.Register(reports)
	}
}
