package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codoraai/hackeval-api/internal/config"
	"github.com/codoraai/hackeval-api/internal/handler"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	TeamHandler        *handler.TeamHandler
	SubmissionHandler  *handler.SubmissionHandler
	WebhookHandler     *handler.WebhookHandler
	JudgeHandler       *handler.JudgeHandler
	LeaderboardHandler *handler.LeaderboardHandler
	RoundHandler       *handler.RoundHandler
	AdminHandler       *handler.AdminHandler
	JWTMiddleware      fiber.Handler
	TeamGuard          fiber.Handler
	JudgeGuard         fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	teamGuard := deps.TeamGuard
	if teamGuard == nil {
		teamGuard = func(c *fiber.Ctx) error { return c.Next() }
	}
	judgeGuard := deps.JudgeGuard
	if judgeGuard == nil {
		judgeGuard = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Team accounts and the presentation pipeline.
	if deps.TeamHandler != nil {
		team := api.Group("/team")
		deps.TeamHandler.Register(team)
		deps.TeamHandler.RegisterProtected(team.Group("", jwtMiddleware, teamGuard))
	}

	if deps.SubmissionHandler != nil {
		ppt := api.Group("/team/ppt")
		deps.SubmissionHandler.Register(ppt)
		deps.SubmissionHandler.RegisterProtected(ppt.Group("", jwtMiddleware, teamGuard))
	}

	// Evaluator callback; authenticated by payload signature, not JWT.
	if deps.WebhookHandler != nil {
		webhook := api.Group("/team-ppt/webhook")
		deps.WebhookHandler.Register(webhook)
	}

	// Judge panel.
	if deps.JudgeHandler != nil {
		judge := api.Group("/judge")
		deps.JudgeHandler.Register(judge)
		deps.JudgeHandler.RegisterProtected(judge.Group("", jwtMiddleware, judgeGuard))
	}

	if deps.LeaderboardHandler != nil {
		deps.LeaderboardHandler.Register(api.Group("/leaderboard"))
	}

	// Organizer surfaces.
	if deps.RoundHandler != nil {
		deps.RoundHandler.Register(api.Group("/rounds", jwtMiddleware))
	}

	if deps.AdminHandler != nil {
		deps.AdminHandler.Register(api.Group("/admin", jwtMiddleware))
	}
}
