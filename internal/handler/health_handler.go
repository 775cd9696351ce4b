package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/codoraai/hackeval-api/internal/config"
	"github.com/codoraai/hackeval-api/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint. The
// dispatch mode tells operators whether evaluation results come back through
// the webhook or inside the evaluator response.
type HealthResponse struct {
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
	Service      string    `json:"service"`
	Environment  string    `json:"environment"`
	DispatchMode string    `json:"dispatch_mode"`
}

// HealthCheck returns a handler that reports application health information.
func HealthCheck(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:       "ok",
			Timestamp:    time.Now().UTC(),
			Service:      cfg.AppName,
			Environment:  cfg.AppEnv,
			DispatchMode: cfg.EvaluatorMode,
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
