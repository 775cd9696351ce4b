package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/codoraai/hackeval-api/internal/service"
	"github.com/codoraai/hackeval-api/internal/utils"
)

// LeaderboardHandler serves the ranked PPT leaderboard.
type LeaderboardHandler struct {
	service service.LeaderboardService
	logger  zerolog.Logger
}

// NewLeaderboardHandler constructs a leaderboard handler.
func NewLeaderboardHandler(service service.LeaderboardService, logger zerolog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		service: service,
		logger:  logger.With().Str("component", "leaderboard_handler").Logger(),
	}
}

// Register wires leaderboard routes.
func (h *LeaderboardHandler) Register(router fiber.Router) {
	router.Get("/ppt", h.leaderboard)
}

func (h *LeaderboardHandler) leaderboard(c *fiber.Ctx) error {
	entries, err := h.service.Leaderboard(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build leaderboard")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build leaderboard")
	}

	return utils.SendSuccess(c, "leaderboard fetched", entries)
}
