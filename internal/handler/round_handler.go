package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/codoraai/hackeval-api/internal/dto"
	"github.com/codoraai/hackeval-api/internal/service"
	"github.com/codoraai/hackeval-api/internal/utils"
)

// RoundHandler controls the active hackathon round.
type RoundHandler struct {
	service service.RoundService
	logger  zerolog.Logger
}

// NewRoundHandler constructs a round handler.
func NewRoundHandler(service service.RoundService, logger zerolog.Logger) *RoundHandler {
	return &RoundHandler{
		service: service,
		logger:  logger.With().Str("component", "round_handler").Logger(),
	}
}

// Register wires round control routes.
func (h *RoundHandler) Register(router fiber.Router) {
	router.Get("/active", h.active)
	router.Get("", h.list)
	router.Post("", h.setActive)
	router.Delete("/:id", h.remove)
}

func (h *RoundHandler) setActive(c *fiber.Ctx) error {
	var payload dto.SetRoundRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := validate.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "round is required")
	}

	response, err := h.service.SetActive(c.Context(), payload.Round)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "round activated", response)
}

func (h *RoundHandler) active(c *fiber.Ctx) error {
	response, err := h.service.GetActive(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "active round fetched", response)
}

func (h *RoundHandler) list(c *fiber.Ctx) error {
	response, err := h.service.List(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "rounds fetched", response)
}

func (h *RoundHandler) remove(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid round id")
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "round deleted", nil)
}

func (h *RoundHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrRoundNotFound):
		return utils.SendError(c, fiber.StatusNotFound, service.ErrRoundNotFound.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("round request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to process request")
	}
}
